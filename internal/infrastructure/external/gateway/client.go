// Package gateway posts outbound SMS, email and M-Pesa push requests to
// HTTP JSON endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
)

// Config holds the collaborator endpoints
type Config struct {
	SMSURL   string
	EmailURL string
	MpesaURL string
	APIKey   string
	Timeout  time.Duration
}

// StatusError is returned for a non-2xx response
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: non-2xx status %d", e.URL, e.Status)
}

// Client implements the SMS, email and payment collaborators
type Client struct {
	http   *http.Client
	cfg    Config
	logger *zap.Logger
}

// NewClient creates a new gateway client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, cfg: cfg, logger: logger}
}

// SendSMS posts {to, message} to the SMS endpoint
func (c *Client) SendSMS(ctx context.Context, msg entity.SMSMessage) error {
	_, err := c.send(ctx, "sms", c.cfg.SMSURL, msg)
	return err
}

// SendEmail posts {to, subject, html} to the email endpoint
func (c *Client) SendEmail(ctx context.Context, msg entity.EmailMessage) error {
	_, err := c.send(ctx, "email", c.cfg.EmailURL, msg)
	return err
}

// InitiatePush posts the STK push request. The response body is logged and
// otherwise ignored.
func (c *Client) InitiatePush(ctx context.Context, req entity.PaymentRequest) error {
	raw, err := c.send(ctx, "mpesa", c.cfg.MpesaURL, req)
	if err != nil {
		return err
	}
	c.logger.Debug("M-Pesa push accepted",
		zap.String("account_reference", req.AccountReference),
		zap.ByteString("response", raw),
	)
	return nil
}

func (c *Client) send(ctx context.Context, kind, url string, body any) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%s endpoint not configured", kind)
	}

	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Gateway request failed",
			zap.String("kind", kind),
			zap.String("req_id", reqID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("send %s: %w", kind, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	c.logger.Info("Gateway response",
		zap.String("kind", kind),
		zap.String("req_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode/100 != 2 {
		return raw, &StatusError{URL: url, Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

var (
	_ port.SMSSender      = (*Client)(nil)
	_ port.EmailSender    = (*Client)(nil)
	_ port.PaymentGateway = (*Client)(nil)
)
