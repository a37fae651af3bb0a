// Package supabase is a minimal PostgREST client for a Supabase project.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/config"
)

// Client exposes the table operations used by the application.
type Client interface {
	Select(ctx context.Context, table string, query url.Values, out any) error
	Insert(ctx context.Context, table string, rows any) error
	Delete(ctx context.Context, table string, filter url.Values) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a PostgREST client from the Supabase settings.
func NewClient(cfg config.SupabaseConfig) *APIClient {
	base := strings.TrimSuffix(cfg.URL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.ServiceKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.ServiceKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if cfg.Schema != "" {
		restyClient.
			SetHeader("Accept-Profile", cfg.Schema).
			SetHeader("Content-Profile", cfg.Schema)
	}

	return &APIClient{httpClient: restyClient}
}

// APIError is the PostgREST error payload.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("postgrest error: status=%d", e.Status)
	if e.Code != "" {
		msg += ", code=" + e.Code
	}
	if e.Message != "" {
		msg += ", message=" + e.Message
	}
	if e.Details != "" {
		msg += ", details=" + e.Details
	}
	return msg
}

// Eq builds an equality filter value.
func Eq(value string) string {
	return "eq." + value
}

// Select reads rows of table matching query into out.
func (c *APIClient) Select(ctx context.Context, table string, query url.Values, out any) error {
	apiErr := new(APIError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		SetResult(out).
		SetError(apiErr).
		Get(table)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return checkResponse(resp, apiErr)
}

// Insert writes rows (a struct or slice) into table.
func (c *APIClient) Insert(ctx context.Context, table string, rows any) error {
	apiErr := new(APIError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		SetError(apiErr).
		Post(table)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return checkResponse(resp, apiErr)
}

// Delete removes rows of table matching filter. An empty filter is refused.
func (c *APIClient) Delete(ctx context.Context, table string, filter url.Values) error {
	if len(filter) == 0 {
		return fmt.Errorf("delete %s: filter must not be empty", table)
	}
	apiErr := new(APIError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(filter).
		SetHeader("Prefer", "return=minimal").
		SetError(apiErr).
		Delete(table)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return checkResponse(resp, apiErr)
}

func checkResponse(resp *resty.Response, apiErr *APIError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	apiErr.Status = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(resp.Body()))
	}
	return apiErr
}
