// Package datadog contains a client for the couple of Datadog endpoints the
// integration needs: the API key validation and the webhook intake address.
package datadog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cappuccinotm/azdohooks/app/errs"
	"github.com/cappuccinotm/azdohooks/pkg/httpx"
	"github.com/cappuccinotm/azdohooks/pkg/logx"
)

// ValidSites lists the Datadog sites events may be delivered to.
var ValidSites = []string{
	"datadoghq.com",
	"datadoghq.eu",
	"ap1.datadoghq.com",
	"us3.datadoghq.com",
	"us5.datadoghq.com",
	"datad0g.com",
}

// ValidSite reports whether the given site is one of ValidSites.
func ValidSite(site string) bool {
	for _, s := range ValidSites {
		if s == site {
			return true
		}
	}
	return false
}

// Client performs calls to the Datadog API of a single site.
type Client struct {
	site    string
	baseURL string
	l       logx.Logger
	cl      *http.Client
}

// ClientParams describes parameters to initialize Client.
type ClientParams struct {
	Site   string
	APIKey string
	Logger logx.Logger
}

// NewClient makes new instance of Client.
func NewClient(params ClientParams) *Client {
	svc := &Client{
		site:    params.Site,
		baseURL: fmt.Sprintf("https://api.%s", params.Site),
		l:       params.Logger,
	}

	svc.cl = &http.Client{
		Transport: httpx.HeaderTransport("DD-API-KEY", params.APIKey),
		Timeout:   30 * time.Second,
	}

	return svc
}

// Validate checks that the API key is valid for the site.
func (c *Client) Validate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/validate", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.cl.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rerr := errs.ErrDatadogAPI{ResponseStatus: resp.StatusCode}

		bts, err := io.ReadAll(resp.Body)
		if err != nil {
			c.l.Printf("[WARN] datadog API responded with status %d, failed to read response body: %v",
				resp.StatusCode, err)
			return rerr
		}

		rerr.Body = strings.TrimSpace(string(bts))
		return rerr
	}

	return nil
}

// WebhookURL returns the intake endpoint the configured hooks deliver to.
func (c *Client) WebhookURL() string {
	return fmt.Sprintf("https://webhook-intake.%s/api/v2/webhook", c.site)
}
