package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/softdevglobal/bms-pro-sub000/config"
	"github.com/softdevglobal/bms-pro-sub000/internal/domain"
)

// Client talks to the booking REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	loc     *time.Location
	log     *zap.Logger
}

func NewClient(cfg config.APIConfig, loc *time.Location, log *zap.Logger) *Client {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout()},
		loc:     loc,
		log:     log.Named("upstream"),
	}
}

// ListByOwner fetches every booking of a hall owner.
func (c *Client) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	endpoint := c.baseURL + "/api/bookings/hall-owner/" + url.PathEscape(ownerID)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	raws, err := decodeList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode bookings: %v", domain.ErrUpstream, err)
	}

	bookings := make([]domain.Booking, 0, len(raws))
	for i, raw := range raws {
		r, err := decodeRecord(raw)
		if err != nil {
			c.log.Warn("skipping malformed booking record",
				zap.String("owner_id", ownerID),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		bookings = append(bookings, r.toDomain(c.loc))
	}
	c.log.Debug("bookings fetched", zap.String("owner_id", ownerID), zap.Int("count", len(bookings)))
	return bookings, nil
}

// UpdateStatus asks the booking API to move a booking to status.
func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	payload, err := json.Marshal(map[string]string{"status": status.Wire()})
	if err != nil {
		return err
	}
	endpoint := c.baseURL + "/api/bookings/" + url.PathEscape(id) + "/status"
	_, err = c.do(ctx, http.MethodPut, endpoint, payload)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrUpstream, method, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, upstreamMessage(body))
	case resp.StatusCode >= 300:
		c.log.Warn("booking api error",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %s %s returned %d", domain.ErrUpstream, method, endpoint, resp.StatusCode)
	}
	return body, nil
}

func upstreamMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}
