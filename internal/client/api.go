package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aanand-mishra/edu-admin-api/internal/types"
)

// ListUsers fetches GET /api/admin/users.
func ListUsers(ctx context.Context, r Requester) ([]types.PublicUser, error) {
	var users []types.PublicUser
	if err := r.Do(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SearchUsers fetches GET /api/admin/search-users?query=.
func SearchUsers(ctx context.Context, r Requester, query string) ([]types.PublicUser, error) {
	path := "/api/admin/search-users?query=" + url.QueryEscape(query)

	var users []types.PublicUser
	if err := r.Do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// ListPayments fetches GET /api/payments.
func ListPayments(ctx context.Context, r Requester) ([]types.Payment, error) {
	var payments []types.Payment
	if err := r.Do(ctx, http.MethodGet, "/api/payments", nil, &payments); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// MarkPaid calls POST /api/payments/{id}/mark-paid.
func MarkPaid(ctx context.Context, r Requester, id int64, req types.MarkPaidRequest) (types.Payment, error) {
	var result struct {
		Message string        `json:"message"`
		Payment types.Payment `json:"payment"`
	}
	path := fmt.Sprintf("/api/payments/%d/mark-paid", id)
	if err := r.Do(ctx, http.MethodPost, path, req, &result); err != nil {
		return types.Payment{}, fmt.Errorf("mark payment %d paid: %w", id, err)
	}
	return result.Payment, nil
}

// FetchMeta fetches the catalogue. No token is sent and nothing is retried.
func (c *Client) FetchMeta(ctx context.Context) (types.Meta, error) {
	var meta types.Meta
	if err := c.Get(ctx, "/api/meta", &meta); err != nil {
		return types.Meta{}, fmt.Errorf("fetch meta: %w", err)
	}
	return meta, nil
}

// Autocomplete fetches catalogue suggestions for query.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]string, error) {
	var suggestions []string
	path := "/api/meta/autocomplete?query=" + url.QueryEscape(query)
	if err := c.Get(ctx, path, &suggestions); err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return suggestions, nil
}
