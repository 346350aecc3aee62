package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/DIvanCode/rwlock/internal/api"
	errs "github.com/DIvanCode/rwlock/pkg/errors"
)

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

func (c *Client) ListScenarios(ctx context.Context) ([]api.ScenarioInfo, error) {
	var resp api.ListScenariosResponse
	if err := c.do(ctx, http.MethodGet, "/scenarios", &resp); err != nil {
		return nil, err
	}
	return resp.Scenarios, nil
}

func (c *Client) RunScenario(ctx context.Context, name string) (api.RunResponse, error) {
	var resp api.RunResponse
	if err := c.do(ctx, http.MethodPost, "/scenarios/"+url.PathEscape(name)+"/run", &resp); err != nil {
		return api.RunResponse{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, resp any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bytes.NewBuffer(nil))
	if err != nil {
		return err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		content, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return err
		}
		switch httpResp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", errs.ErrUnknownScenario, bytes.TrimSpace(content))
		case http.StatusConflict:
			return errs.ErrScenarioRunning
		}
		return errors.New(string(content))
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
