package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verte-zerg/typelab/internal/model"
	"github.com/verte-zerg/typelab/internal/score"
)

func TestSubmitScoreSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/scores" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["name"] != "Ann" || payload["wpm"] != 80.0 {
			t.Fatalf("unexpected payload: %v", payload)
		}
		if payload["rawWpm"] != 92.0 {
			t.Fatalf("expected rawWpm on the wire, got %v", payload["rawWpm"])
		}
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write([]byte(`{"success":true,"data":{"id":"abc","name":"Ann","wpm":80,"accuracy":95,"rawWpm":92}}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()

	client := New(srv.URL)
	raw := 92.0
	rec, err := client.SubmitScore(context.Background(), model.Submission{Name: "Ann", WPM: 80, Accuracy: 95, RawWPM: &raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "abc" || rec.RawWPM != 92 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestSubmitScoreRejectionMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"invalid", http.StatusBadRequest, `{"success":false,"reason":"invalid","error":"bad name"}`, score.ErrInvalidSubmission},
		{"duplicate", http.StatusConflict, `{"success":false,"reason":"duplicate","error":"suppressed"}`, score.ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				if _, err := w.Write([]byte(tc.body)); err != nil {
					t.Fatalf("failed to write response: %v", err)
				}
			}))
			defer srv.Close()
			client := New(srv.URL)
			_, err := client.SubmitScore(context.Background(), model.Submission{Name: "Ann", WPM: 80, Accuracy: 95})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmitScoreTransientFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(`{"success":false,"reason":"unavailable","error":"down"}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()
	client := New(srv.URL)
	_, err := client.SubmitScore(context.Background(), model.Submission{Name: "Ann", WPM: 80, Accuracy: 95})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, score.ErrInvalidSubmission) || errors.Is(err, score.ErrDuplicate) {
		t.Fatalf("transient fault must not look like a rejection: %v", err)
	}
}

func TestFetchLeaderboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/leaderboard" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if _, err := w.Write([]byte(`{"success":true,"data":[{"id":"1","name":"Ann","wpm":95,"accuracy":90,"rawWpm":99}]}`)); err != nil {
			t.Fatalf("failed to write response: %v", err)
		}
	}))
	defer srv.Close()
	client := New(srv.URL)
	recs, err := client.FetchLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Ann" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
