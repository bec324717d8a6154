// Package export delivers generated CSV files to a configured HTTP
// endpoint, typically a back-office intake service.
package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/laborbook/internal/config"
)

// Client delivers export files over HTTP.
type Client interface {
	SendReport(ctx context.Context, filename string, data []byte) error
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a delivery client using the provided configuration values.
func NewClient(cfg config.ExportConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.SetTimeout(15 * time.Second)

	return &WebhookClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// apiError represents the error payload returned by the intake endpoint.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendReport posts a CSV file as a multipart upload.
func (c *WebhookClient) SendReport(ctx context.Context, filename string, data []byte) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{"filename": filename}).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("deliver export %s: %w", filename, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return fmt.Errorf("export webhook error: code=%d, message=%s", code, message)
	}

	return nil
}
