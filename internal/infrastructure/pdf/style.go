package pdf

import (
	"strconv"
	"strings"

	"github.com/garyjia/invoice-studio/internal/domain/template"
)

const (
	// ptPerRem converts CSS rem sizes to points at a 16px root.
	ptPerRem = 12.0
	ptPerPx  = 0.75
)

type rgb struct{ r, g, b int }

var (
	white          = rgb{255, 255, 255}
	black          = rgb{0, 0, 0}
	classicBorder  = rgb{0xd1, 0xd5, 0xdb}
	corporateRule  = rgb{0x3b, 0x82, 0xf6}
	modernShadow   = rgb{0xe5, 0xe7, 0xeb}
	minimalOutline = rgb{0xe5, 0xe7, 0xeb}
)

// parseColor reads #rgb or #rrggbb, falling back when unparseable.
func parseColor(s string, fallback rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}
}

// parseSize converts rem, px or pt lengths to points.
func parseSize(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	unit := 1.0
	switch {
	case strings.HasSuffix(s, "rem"):
		s, unit = strings.TrimSuffix(s, "rem"), ptPerRem
	case strings.HasSuffix(s, "px"):
		s, unit = strings.TrimSuffix(s, "px"), ptPerPx
	case strings.HasSuffix(s, "pt"):
		s = strings.TrimSuffix(s, "pt")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v * unit
}

// fontFamily maps a CSS font stack onto the PDF core fonts.
func fontFamily(stack string) string {
	s := strings.ToLower(stack)
	switch {
	case strings.Contains(s, "mono"):
		return "Courier"
	case strings.Contains(s, "serif") && !strings.Contains(s, "sans"):
		return "Times"
	default:
		return "Helvetica"
	}
}

func spacingFactor(spacing string) float64 {
	switch spacing {
	case "compact":
		return 0.75
	case "relaxed", "spacious":
		return 1.25
	default:
		return 1
	}
}

// metrics is the drawing scale derived from a resolved configuration.
type metrics struct {
	family   string
	heading  float64
	subhead  float64
	body     float64
	gap      float64
	padding  float64
	imageMax float64
}

func newMetrics(cfg template.Config) metrics {
	body := parseSize(cfg.BodySize, 10.5)
	heading := parseSize(cfg.HeadingSize, 24)
	f := spacingFactor(cfg.Spacing)
	return metrics{
		family:   fontFamily(cfg.FontFamily),
		heading:  heading,
		subhead:  (heading + body) / 2,
		body:     body,
		gap:      14 * f,
		padding:  36 * f,
		imageMax: 56,
	}
}
