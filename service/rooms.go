package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"seatplan-cli/model"
)

const (
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// Client wraps HTTP access to the cinema administration API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "backend api error"
	}
	return fmt.Sprintf("backend api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// NewClient creates a new API client. If httpClient is nil, a default client
// is used. The token is attached as a bearer credential to every request.
func NewClient(httpClient *http.Client, baseURL string, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		token:       token,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// GetRooms fetches all rooms of the chain.
func (c *Client) GetRooms(ctx context.Context) ([]model.Room, error) {
	endpoint := fmt.Sprintf("%s/rooms", c.baseURL)

	var rooms []model.Room
	if err := c.getJSON(ctx, endpoint, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoomSeats fetches the persisted seat list of one room. Responses that
// carry only the seat number get their row label and column number derived
// once here, so everything downstream works with the explicit pair.
func (c *Client) GetRoomSeats(ctx context.Context, roomID int) ([]model.Seat, error) {
	if roomID <= 0 {
		return nil, errors.New("room id is required")
	}
	endpoint := fmt.Sprintf("%s/rooms/%s/seats", c.baseURL, strconv.Itoa(roomID))

	var seats []model.Seat
	if err := c.getJSON(ctx, endpoint, &seats); err != nil {
		return nil, err
	}

	normalized := seats[:0]
	for _, seat := range seats {
		if seat.RowLabel == "" || seat.ColumnNumber < 1 {
			rowLabel, column, err := model.ParseSeatNumber(seat.SeatNumber)
			if err != nil {
				continue
			}
			seat.RowLabel = rowLabel
			seat.ColumnNumber = column
		}
		seat.Exists = true
		normalized = append(normalized, seat)
	}
	return normalized, nil
}

// SaveRoomLayout submits the full seat list as one atomic replace.
func (c *Client) SaveRoomLayout(ctx context.Context, payload model.LayoutPayload) error {
	if payload.RoomID <= 0 {
		return errors.New("room id is required")
	}
	endpoint := fmt.Sprintf("%s/rooms/%s/layout", c.baseURL, strconv.Itoa(payload.RoomID))
	return c.postJSON(ctx, endpoint, payload)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, payload, nil)
}

func (c *Client) doJSON(ctx context.Context, method string, endpoint string, body []byte, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       string(bytes.TrimSpace(snippet)),
			}
			if method == http.MethodGet && c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return nil
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}
