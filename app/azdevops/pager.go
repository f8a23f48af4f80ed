package azdevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cappuccinotm/azdohooks/app/store"
)

// ProjectsPager lazily iterates over the organization's projects,
// fetching the next page on demand by following the continuation token.
type ProjectsPager struct {
	cl    *Client
	token string
	done  bool
}

// Projects returns a pager positioned before the first page.
func (c *Client) Projects() *ProjectsPager { return &ProjectsPager{cl: c} }

// Next fetches the next page of projects, ok is false when no pages remain.
func (p *ProjectsPager) Next(ctx context.Context) (projects []store.Project, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}

	u := fmt.Sprintf("%s/_apis/projects?api-version=%s", p.cl.baseURL, apiVersion)
	if p.token != "" {
		u += "&continuationToken=" + url.QueryEscape(p.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.cl.cl.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, p.cl.unexpectedStatus("list projects", resp)
	}

	var respBody struct {
		Value []store.Project `json:"value"`
		// the REST reference is ambiguous on where the continuation token
		// is returned, the response header takes precedence over this field
		ContinuationToken string `json:"continuationToken"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, false, fmt.Errorf("unmarshal projects page: %w", err)
	}

	if p.token = resp.Header.Get("X-MS-ContinuationToken"); p.token == "" {
		p.token = respBody.ContinuationToken
	}
	p.done = p.token == ""

	return respBody.Value, true, nil
}

// ListProjects drains the pager into a single ordered list.
func (c *Client) ListProjects(ctx context.Context) ([]store.Project, error) {
	var res []store.Project

	pager := c.Projects()
	for {
		page, ok, err := pager.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch next page: %w", err)
		}
		if !ok {
			break
		}
		res = append(res, page...)
	}

	return res, nil
}
