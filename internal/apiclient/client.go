// Package apiclient talks to the leaderboard service over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/verte-zerg/typelab/internal/model"
	"github.com/verte-zerg/typelab/internal/score"
)

const requestTimeout = 10 * time.Second

// Client is a thin HTTP client for the leaderboard API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type scorePayload struct {
	Name     string   `json:"name"`
	WPM      float64  `json:"wpm"`
	Accuracy float64  `json:"accuracy"`
	RawWPM   *float64 `json:"rawWpm,omitempty"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Reason  string          `json:"reason"`
	Error   string          `json:"error"`
}

// SubmitScore posts one score. Rejections map back onto the score package
// sentinels so callers can tell a terminal rejection from a transient fault.
func (c *Client) SubmitScore(ctx context.Context, sub model.Submission) (model.ScoreRecord, error) {
	payload := scorePayload{
		Name:     sub.Name,
		WPM:      sub.WPM,
		Accuracy: sub.Accuracy,
		RawWPM:   sub.RawWPM,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to encode score: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to submit score: %w", err)
	}
	defer closeBody(resp)

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return model.ScoreRecord{}, rejectionError(resp.StatusCode, parsed)
	}
	var rec model.ScoreRecord
	if err := json.Unmarshal(parsed.Data, &rec); err != nil {
		return model.ScoreRecord{}, fmt.Errorf("failed to decode score record: %w", err)
	}
	return rec, nil
}

// FetchLeaderboard returns the per-player deduped ranking.
func (c *Client) FetchLeaderboard(ctx context.Context) ([]model.ScoreRecord, error) {
	return c.fetchList(ctx, "/api/leaderboard")
}

// FetchScores returns the raw ranked feed.
func (c *Client) FetchScores(ctx context.Context) ([]model.ScoreRecord, error) {
	return c.fetchList(ctx, "/api/scores")
}

func (c *Client) fetchList(ctx context.Context, path string) ([]model.ScoreRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	defer closeBody(resp)

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server rejected request: %s", parsed.Error)
	}
	var recs []model.ScoreRecord
	if err := json.Unmarshal(parsed.Data, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode score list: %w", err)
	}
	return recs, nil
}

func rejectionError(status int, parsed apiResponse) error {
	switch parsed.Reason {
	case "invalid":
		return fmt.Errorf("%w: %s", score.ErrInvalidSubmission, parsed.Error)
	case "duplicate":
		return score.ErrDuplicate
	default:
		return fmt.Errorf("server unavailable (%d): %s", status, parsed.Error)
	}
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		// Best-effort body close.
		_ = cerr
	}
}
