// Package azdevops contains a client for the Azure DevOps REST API,
// scoped to a single organization.
package azdevops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cappuccinotm/azdohooks/app/errs"
	"github.com/cappuccinotm/azdohooks/app/store"
	"github.com/cappuccinotm/azdohooks/pkg/httpx"
	"github.com/cappuccinotm/azdohooks/pkg/logx"
)

// apiVersion is pinned on every call to the API.
const apiVersion = "7.1"

const (
	consumerID       = "webHooks"
	consumerActionID = "httpRequest"
)

// Client performs calls to the Azure DevOps REST API on behalf
// of a single organization.
type Client struct {
	baseURL    string
	webhookURL string
	apiKey     string
	l          logx.Logger
	cl         *http.Client
}

// ClientParams describes parameters to initialize Client.
type ClientParams struct {
	Organization string
	Token        string
	WebhookURL   string // delivery target of the configured hooks
	APIKey       string // forwarded to the intake in the delivery header
	Logger       logx.Logger
}

// NewClient makes new instance of Client.
func NewClient(params ClientParams) *Client {
	svc := &Client{
		baseURL:    fmt.Sprintf("https://dev.azure.com/%s", params.Organization),
		webhookURL: params.WebhookURL,
		apiKey:     params.APIKey,
		l:          params.Logger,
	}

	svc.cl = &http.Client{
		Transport: httpx.HeaderTransport("Authorization", "Bearer "+params.Token),
		Timeout:   30 * time.Second,
	}

	return svc
}

// subscriptionsQuery filters the hooks to the webhook consumer
// pointing at the given delivery URL.
type subscriptionsQuery struct {
	ConsumerID           string                `json:"consumerId"`
	ConsumerInputFilters []consumerInputFilter `json:"consumerInputFilters"`
}

type consumerInputFilter struct {
	Conditions []filterCondition `json:"conditions"`
}

type filterCondition struct {
	InputID    string `json:"inputId"`
	InputValue string `json:"inputValue"`
	Operator   string `json:"operator"`
}

// ListSubscriptions returns all service hook subscriptions delivering to the
// configured webhook URL, in the order the server returned them.
func (c *Client) ListSubscriptions(ctx context.Context) ([]store.Subscription, error) {
	query := subscriptionsQuery{
		ConsumerID: consumerID,
		ConsumerInputFilters: []consumerInputFilter{{
			Conditions: []filterCondition{{InputID: "url", InputValue: c.webhookURL, Operator: "equals"}},
		}},
	}

	bts, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	u := fmt.Sprintf("%s/_apis/hooks/subscriptionsquery?api-version=%s", c.baseURL, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bts))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpectedStatus("query service hooks", resp)
	}

	var respBody struct {
		Results []store.Subscription `json:"results"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("unmarshal subscriptions: %w", err)
	}

	return respBody.Results, nil
}

// CreateSubscription registers a service hook delivering the given event type
// of the project to the configured webhook URL.
func (c *Client) CreateSubscription(ctx context.Context, project store.Project, eventType string) error {
	c.l.Printf("[DEBUG] configuring %s service hook for project %q", eventType, project.Name)

	sub := store.Subscription{
		PublisherID:      store.PublisherID(eventType),
		EventType:        eventType,
		ResourceVersion:  store.ResourceVersion(eventType),
		ConsumerID:       consumerID,
		ConsumerActionID: consumerActionID,
		PublisherInputs:  store.PublisherInputs{ProjectID: project.ID},
		ConsumerInputs: store.ConsumerInputs{
			URL:         c.webhookURL,
			HTTPHeaders: "dd-api-key: " + c.apiKey,
		},
	}

	bts, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}

	u := fmt.Sprintf("%s/_apis/hooks/subscriptions?api-version=%s", c.baseURL, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bts))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cl.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.unexpectedStatus(fmt.Sprintf("configure service hook for project %q", project.Name), resp)
	}

	return nil
}

// DeleteSubscription removes the service hook with the given identifier.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	c.l.Printf("[DEBUG] removing service hook %s", subscriptionID)

	u := fmt.Sprintf("%s/_apis/hooks/subscriptions/%s?api-version=%s", c.baseURL, subscriptionID, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.cl.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return c.unexpectedStatus(fmt.Sprintf("delete service hook %s", subscriptionID), resp)
	}

	return nil
}

func (c *Client) unexpectedStatus(op string, resp *http.Response) error {
	rerr := errs.ErrAzureDevOpsAPI{Op: op, ResponseStatus: resp.StatusCode}

	bts, err := io.ReadAll(resp.Body)
	if err != nil {
		c.l.Printf("[WARN] azure devops API responded with status %d, failed to read response body: %v",
			resp.StatusCode, err)
		return rerr
	}

	rerr.Body = strings.TrimSpace(string(bts))
	return rerr
}
