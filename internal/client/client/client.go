package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/triptales/internal/netx"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the server at baseURL ("http://host:port").
// timeout bounds each request; zero means no client-side limit.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	return mapError(netx.DoJSON(ctx, c.http, method, c.baseURL+path, token, in, out))
}

// Ping checks that the server answers its health probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListItineraries returns itineraries newest first. An empty status means all
// statuses; limit <= 0 leaves the server default.
func (c *Client) ListItineraries(ctx context.Context, status string, limit int) (*ItineraryPage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/itineraries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page ItineraryPage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetItinerary(ctx context.Context, id string) (*Itinerary, error) {
	var resp struct {
		Itinerary Itinerary `json:"itinerary"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/itineraries/"+url.PathEscape(id), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Itinerary, nil
}

// SetStatus moves an itinerary to status. It needs an admin token. An empty
// note clears the stored review note.
func (c *Client) SetStatus(ctx context.Context, token, id, status, note string) (*Itinerary, error) {
	req := struct {
		ReviewStatus string  `json:"reviewStatus"`
		ReviewNote   *string `json:"reviewNote"`
	}{ReviewStatus: status}
	if note != "" {
		req.ReviewNote = &note
	}

	var resp struct {
		Itinerary Itinerary `json:"itinerary"`
	}
	path := "/api/itineraries/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Itinerary, nil
}
