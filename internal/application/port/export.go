package port

import (
	"context"
	"errors"
	"image"

	"github.com/garyjia/invoice-studio/internal/render"
)

// ErrCaptureRestricted is returned by Capture when the surface references
// content it is not allowed to read back (for example a non-embedded image).
var ErrCaptureRestricted = errors.New("capture restricted")

// Presentation is the visual placement of a surface.
type Presentation struct {
	Position  string  `json:"position"`
	Visible   bool    `json:"visible"`
	Opacity   float64 `json:"opacity"`
	ZIndex    int     `json:"z_index"`
	Transform string  `json:"transform"`
}

// CapturePresentation is the placement a surface needs while being captured.
var CapturePresentation = Presentation{
	Position:  "fixed",
	Visible:   true,
	Opacity:   1,
	ZIndex:    9999,
	Transform: "translateZ(0)",
}

// Surface is the render surface a session displays its document on. The
// export flow is the only caller allowed to change its presentation.
type Surface interface {
	// Mount replaces the displayed document
	Mount(doc *render.Document)
	// Size returns the laid-out size in pixels; zero when nothing is laid out
	Size() (width, height int)
	// HasContent reports whether the surface shows an invoice
	HasContent() bool
	Presentation() Presentation
	SetPresentation(p Presentation)
	// Capture rasterizes the surface at the given scale
	Capture(ctx context.Context, scale float64) (image.Image, error)
}

// SurfaceFactory creates surfaces for new sessions
type SurfaceFactory interface {
	NewSurface() Surface
}

// PageOptions configures pagination of a captured image.
type PageOptions struct {
	MarginMM float64
	Title    string
}

// Paginator lays a captured image out over fixed-size pages
type Paginator interface {
	Paginate(ctx context.Context, img image.Image, opts PageOptions) ([]byte, error)
}

// ArtifactInspector reads back a produced artifact
type ArtifactInspector interface {
	PageCount(artifact []byte) (int, error)
}
