package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type Result struct {
	Option string `json:"option"`
	Votes  int64  `json:"votes"`
}

type Poll struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Results  []Result `json:"results"`
	Total    int64    `json:"total"`
}

// RequestError is returned for any non-2xx response. Message carries the
// server's error text when the body had one.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("poll request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("poll request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the poll endpoints under baseURL, e.g.
// "https://roysafi.example/api".
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchPoll returns the active poll with its tallies, or nil when no poll is
// active.
func (c *Client) FetchPoll(ctx context.Context) (*Poll, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/poll", nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Poll *Poll `json:"poll"`
	}
	if err := c.do(req, http.StatusOK, &body); err != nil {
		return nil, err
	}
	return body.Poll, nil
}

func (c *Client) SubmitVote(ctx context.Context, choiceIndex int, ward *string) error {
	payload, err := json.Marshal(struct {
		ChoiceIndex int     `json:"choiceIndex"`
		Ward        *string `json:"ward,omitempty"`
	}{choiceIndex, ward})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/poll", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, http.StatusCreated, nil)
}

func (c *Client) do(req *http.Request, want int, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach poll service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		reqErr := &RequestError{StatusCode: resp.StatusCode}
		var body struct {
			Error string `json:"error"`
		}
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)); json.Unmarshal(data, &body) == nil {
			reqErr.Message = body.Error
		}
		return reqErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode poll response: %w", err)
	}
	return nil
}
