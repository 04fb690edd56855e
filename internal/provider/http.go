package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iliyamo/bus-ticket-booking/internal/catalog"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// HTTPClient implements SeatDetailProvider, RouteProvider and
// BookingSubmitter against the operator's REST API.  The zero timeout
// defaults to ten seconds.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient builds an HTTPClient for the operator API at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the raw seat feed for a bus.  Any transport, status or
// decode failure comes back as a *SeatFetchError preserving the cause.
func (c *HTTPClient) Fetch(ctx context.Context, busID string) ([]catalog.RawSeat, error) {
	body, err := c.getBody(ctx, fmt.Sprintf("%s/buses/%s/seats", c.baseURL, busID))
	if err != nil {
		return nil, &SeatFetchError{BusID: busID, Err: err}
	}
	raws, err := catalog.DecodeRawSeats(body)
	if err != nil {
		return nil, &SeatFetchError{BusID: busID, Err: err}
	}
	return raws, nil
}

// FetchRoutes retrieves the serviced sources and destinations.
func (c *HTTPClient) FetchRoutes(ctx context.Context) (model.RouteData, error) {
	var data model.RouteData
	if err := c.getJSON(ctx, c.baseURL+"/routes", &data); err != nil {
		return model.RouteData{}, &ServerError{Err: err}
	}
	return data, nil
}

// Submit posts the booking payload.  Responses decode into the typed error
// taxonomy: 409 carries the unavailable seat identifiers, 400/422 carry the
// endpoint's validation messages, anything else 4xx/5xx is a ServerError.
func (c *HTTPClient) Submit(ctx context.Context, payload BookingPayload) (Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, &ServerError{Err: fmt.Errorf("encode payload: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bookings", bytes.NewReader(body))
	if err != nil {
		return Receipt{}, &ServerError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Receipt{}, &ServerError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, &ServerError{Status: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
		var rec Receipt
		if err := json.Unmarshal(raw, &rec); err != nil {
			return Receipt{}, &ServerError{Status: resp.StatusCode, Err: fmt.Errorf("decode receipt: %w", err)}
		}
		return rec, nil
	case resp.StatusCode == http.StatusConflict:
		var body struct {
			Unavailable []string `json:"unavailable"`
		}
		_ = json.Unmarshal(raw, &body)
		return Receipt{}, &ConflictError{UnavailableSeatIDs: body.Unavailable}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		var body struct {
			Errors []string `json:"errors"`
			Error  string   `json:"error"`
		}
		_ = json.Unmarshal(raw, &body)
		problems := body.Errors
		if len(problems) == 0 && body.Error != "" {
			problems = []string{body.Error}
		}
		return Receipt{}, &RemoteValidationError{Problems: problems}
	default:
		return Receipt{}, &ServerError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", bytes.TrimSpace(raw))}
	}
}

// getJSON issues a GET and decodes a 200 JSON body into out.
func (c *HTTPClient) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.getBody(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getBody issues a GET and returns the 200 response body.
func (c *HTTPClient) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
