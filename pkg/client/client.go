// Package client is a typed HTTP client for the back-office API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/dto"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the /api/v1 routes with a staff bearer token.
type Client struct {
	http  *resty.Client
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on authenticated routes.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL+"/api/v1").
			SetTimeout(15*time.Second).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) request(ctx context.Context, result any) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&APIError{})
	if result != nil {
		req.SetResult(result)
	}
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	return req
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.StatusCode = resp.StatusCode()
	return apiErr
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	req := c.request(ctx, &out).SetBody(dto.LoginRequest{Email: email, Password: password})
	if err := check(req.Post("/auth/login")); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// CreateTransaction rings up a sale.
func (c *Client) CreateTransaction(ctx context.Context, body dto.CreatePOSTransactionRequest) (*dto.CreatePOSTransactionResponse, error) {
	var out dto.CreatePOSTransactionResponse
	if err := check(c.request(ctx, &out).SetBody(body).Post("/transactions")); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefundTransaction refunds a completed sale.
func (c *Client) RefundTransaction(ctx context.Context, transactionID string, body dto.RefundRequest) (*dto.RefundResponse, error) {
	var out dto.RefundResponse
	req := c.request(ctx, &out).SetBody(body).SetPathParam("transactionID", transactionID)
	if err := check(req.Post("/transactions/{transactionID}/refund")); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustStock applies a manual stock correction.
func (c *Client) AdjustStock(ctx context.Context, body dto.AdjustInventoryRequest) (*dto.AdjustInventoryResponse, error) {
	var out dto.AdjustInventoryResponse
	if err := check(c.request(ctx, &out).SetBody(body).Post("/inventory/adjust")); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOrder moves an order through its workflow.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, body dto.UpdateOrderRequest) (*domain.Order, error) {
	var out dto.OrderResponse
	req := c.request(ctx, &out).SetBody(body).SetPathParam("orderID", orderID)
	if err := check(req.Patch("/orders/{orderID}")); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// DashboardSummary fetches the back-office rollups.
func (c *Client) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	if err := check(c.request(ctx, &out).Get("/dashboard/summary")); err != nil {
		return nil, err
	}
	return &out, nil
}
