// Package backend is the transport wrapper around the remote expense
// record API. A non-nil error from any call means one thing only: the
// service could not be reached (connection failure, timeout, cancelled
// context, unreadable body). HTTP error statuses are NOT errors here —
// they come back inside the Response so callers can tell "reachable
// but rejected" from "absent". That split is what drives the
// degrade-vs-reject policy upstream.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jeuanimo/expensegate/internal/core/domain"
)

// Response is a raw remote answer: status plus the full body.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// ExpensePayload is the write shape for create and update calls.
type ExpensePayload struct {
	OwnerID     int64           `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// RegistrationPayload is the sign-up shape. MonthlyIncome is attached
// only when the submitted value parsed as a non-negative number.
type RegistrationPayload struct {
	Username      string   `json:"username"`
	Password      string   `json:"password"`
	Email         string   `json:"email"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	MonthlyIncome *float64 `json:"monthly_income,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the remote API. The timeout bounds the
// single suspension point per operation; a slow backend degrades into a
// transport failure instead of hanging the caller.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/api/login", creds)
}

func (c *Client) Register(ctx context.Context, payload RegistrationPayload) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/api/register", payload)
}

func (c *Client) ListExpenses(ctx context.Context, ownerID int64) (*Response, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/api/expenses?user_id=%d", ownerID), nil)
}

func (c *Client) GetExpense(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/api/expenses/%d", id), nil)
}

func (c *Client) CreateExpense(ctx context.Context, payload ExpensePayload) (*Response, error) {
	return c.do(ctx, http.MethodPost, "/api/expenses", payload)
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, payload ExpensePayload) (*Response, error) {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), payload)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) (*Response, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*Response, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "ExpenseGate/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: data}, nil
}
