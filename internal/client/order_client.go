// Package client calls the order API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"restaurant/internal/dto"
	apperrors "restaurant/internal/errors"
)

const defaultTimeout = 10 * time.Second

type OrderClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewOrderClient returns a client for the API at baseURL. A nil httpClient
// gets a client with a 10s timeout.
func NewOrderClient(baseURL string, httpClient *http.Client) (*OrderClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid order api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid order api url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &OrderClient{baseURL: u, http: httpClient}, nil
}

// SubmitOrder posts an order. A non-empty idempotencyKey is sent as the
// Idempotency-Key header.
func (c *OrderClient) SubmitOrder(ctx context.Context, req dto.CreateOrderRequest, idempotencyKey string) (*dto.CreateOrderResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding order: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}

	var resp dto.CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", bytes.NewReader(body), header, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *OrderClient) GetOrder(ctx context.Context, id uint) (*dto.OrderView, error) {
	var view dto.OrderView
	path := "/api/orders/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *OrderClient) do(ctx context.Context, method, path string, body io.Reader, header http.Header, wantStatus int, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError maps an API error body back onto the app error types.
func decodeError(resp *http.Response) error {
	var body dto.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body = dto.ErrorResponse{Error: http.StatusText(resp.StatusCode), Message: string(bytes.TrimSpace(data))}
	}

	message := body.Message
	if message == "" {
		message = body.Error
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperrors.NewValidationError(message, body.Details...)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case http.StatusConflict:
		return apperrors.NewConflictError(message)
	default:
		return apperrors.NewInternalError(fmt.Sprintf("order api returned %d", resp.StatusCode), fmt.Errorf("%s: %s", body.Error, message))
	}
}
