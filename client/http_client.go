package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/centraldaresenha/go-booking/constant"
	"github.com/centraldaresenha/go-booking/entities"
)

// BookingAPI is the remote boundary of the booking workflow.
type BookingAPI interface {
	ListFields(ctx context.Context) ([]entities.Field, error)
	FieldDetail(ctx context.Context, fieldID int) ([]entities.Field, error)
	CreateBooking(ctx context.Context, req *entities.BookingRequest) error
	ListBookings(ctx context.Context) ([]entities.BookingRecord, error)
}

// TokenProvider supplies the bearer token for every call. session.Manager
// implements it.
type TokenProvider interface {
	Token() (string, error)
}

type APIClient struct {
	client  *http.Client
	baseURL string
	tokens  TokenProvider
}

func New(tokens TokenProvider) *APIClient {
	return NewWithBaseURL(tokens, constant.BaseURL())
}

func NewWithBaseURL(tokens TokenProvider, baseURL string) *APIClient {
	return &APIClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		tokens:  tokens,
	}
}

func (c *APIClient) ListFields(ctx context.Context) ([]entities.Field, error) {
	body, err := c.doGet(ctx, constant.FIELDS_PATH)
	if err != nil {
		return nil, err
	}
	var fields []entities.Field
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse field list: %w", err)
	}
	return fields, nil
}

// FieldDetail fetches one venue's record including its availability map. The
// server answers with either a bare object or an array; both come back as a
// sequence.
func (c *APIClient) FieldDetail(ctx context.Context, fieldID int) ([]entities.Field, error) {
	body, err := c.doGet(ctx, fmt.Sprintf(constant.FIELD_DETAIL_PATH, fieldID))
	if err != nil {
		return nil, err
	}
	var resp entities.FieldDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse field detail: %w", err)
	}
	return resp.Fields, nil
}

func (c *APIClient) CreateBooking(ctx context.Context, req *entities.BookingRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal booking request: %w", err)
	}
	if _, err := c.do(ctx, http.MethodPost, constant.SCHEDULE_PATH, bytes.NewReader(payload)); err != nil {
		return err
	}
	return nil
}

func (c *APIClient) ListBookings(ctx context.Context) ([]entities.BookingRecord, error) {
	body, err := c.doGet(ctx, constant.AGENDA_PATH)
	if err != nil {
		return nil, err
	}
	var resp entities.AgendaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse agenda: %w", err)
	}
	return resp.Bookings, nil
}

func (c *APIClient) doGet(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// do issues one authenticated request and maps failures onto the error
// taxonomy: missing token -> AuthError before any traffic, transport failure
// -> NetworkError, non-2xx -> ServerError (401/403 -> AuthError).
func (c *APIClient) do(ctx context.Context, method, path string, payload io.Reader) ([]byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &AuthError{Err: fmt.Errorf("server rejected token with status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(body),
		}
	}
	return body, nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
