package hr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the HR system REST API:
//
//	GET  {base}/employees/{id}/leave-balance
//	POST {base}/employees/{id}/leave-requests
//	GET  {base}/employees/{id}/pay-stubs?months=N
type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) GetLeaveBalance(ctx context.Context, employeeID string) (*LeaveBalance, error) {
	url := fmt.Sprintf("%s/employees/%s/leave-balance", c.BaseURL, employeeID)

	var balance LeaveBalance
	if err := c.getJSON(ctx, url, &balance); err != nil {
		return nil, err
	}
	if balance.EmployeeID == "" {
		balance.EmployeeID = employeeID
	}
	return &balance, nil
}

// SubmitLeaveRequest forwards a validated request to the HR system. The
// idempotency key travels in a header so a resubmission after an uncertain
// outcome cannot create a duplicate request.
func (c *Client) SubmitLeaveRequest(ctx context.Context, request *LeaveRequest, idempotencyKey string) (*LeaveReceipt, error) {
	url := fmt.Sprintf("%s/employees/%s/leave-requests", c.BaseURL, request.EmployeeID)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal leave request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit leave request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var receipt LeaveReceipt
	if err := json.Unmarshal(bodyBytes, &receipt); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &receipt, nil
}

func (c *Client) GetPayStubs(ctx context.Context, employeeID string, months int) ([]PayStub, error) {
	if months <= 0 {
		months = 6
	}
	url := fmt.Sprintf("%s/employees/%s/pay-stubs?months=%d", c.BaseURL, employeeID, months)

	var stubs []PayStub
	if err := c.getJSON(ctx, url, &stubs); err != nil {
		return nil, err
	}
	return stubs, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("hr request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
