package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitmap357/hospital-test/libs/clock"
	"github.com/bitmap357/hospital-test/libs/test"
	"github.com/samuel/go-metrics/metrics"
)

func chatHandler(t *testing.T, content string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		test.Equals(t, "/chat/completions", r.URL.Path)
		test.Equals(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		test.OK(t, json.NewDecoder(r.Body).Decode(&req))
		test.Equals(t, 0.2, req.Temperature)
		test.Equals(t, 300, req.MaxTokens)
		test.Equals(t, 2, len(req.Messages))
		res := map[string]interface{}{
			"choices": []interface{}{
				map[string]interface{}{
					"message": map[string]interface{}{"content": content},
				},
			},
		}
		test.OK(t, json.NewEncoder(w).Encode(res))
	})
}

func newTestClient(baseURL string, now time.Time) *Client {
	return NewClient("test-key", "gpt-4o-mini", baseURL, clock.NewManaged(now), metrics.NewRegistry())
}

func TestExtract(t *testing.T) {
	now := time.Unix(1e9, 0)
	srv := httptest.NewServer(chatHandler(t, `{"checklist":[{"description":"Pick up inhaler"}],`+
		`"plan":[{"description":"Use inhaler twice daily","scheduled_time_offset_days":2}]}`))
	defer srv.Close()

	c := newTestClient(srv.URL, now)
	res := c.Extract(context.Background(), "Asthma flare, prescribed inhaler.")
	test.Equals(t, SourceExtracted, res.Source)
	test.Equals(t, 1, len(res.Checklist))
	test.Equals(t, "Pick up inhaler", res.Checklist[0].Description)
	test.Equals(t, 1, len(res.Plan))
	test.Equals(t, "Use inhaler twice daily", res.Plan[0].Description)
	test.Equals(t, now.Add(48*time.Hour), res.Plan[0].Scheduled)
}

func TestExtractOffsetDefaultsToOneDay(t *testing.T) {
	now := time.Unix(1e9, 0)
	srv := httptest.NewServer(chatHandler(t, `{"plan":[{"description":"Rest"},`+
		`{"description":"Ice the ankle","scheduled_time_offset_days":0.25}]}`))
	defer srv.Close()

	c := newTestClient(srv.URL, now)
	res := c.Extract(context.Background(), "Sprained ankle.")
	test.Equals(t, SourceExtracted, res.Source)
	test.Equals(t, 2, len(res.Plan))
	test.Equals(t, now.Add(24*time.Hour), res.Plan[0].Scheduled)
	test.Equals(t, now.Add(24*time.Hour), res.Plan[1].Scheduled)
}

func TestExtractFallbackOnTransportError(t *testing.T) {
	now := time.Unix(1e9, 0)
	// Point at a server that is already closed
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := newTestClient(srv.URL, now)
	res := c.Extract(context.Background(), "note")
	assertFallback(t, res, now)
}

func TestExtractFallbackOnErrorStatus(t *testing.T) {
	now := time.Unix(1e9, 0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, now)
	res := c.Extract(context.Background(), "note")
	assertFallback(t, res, now)
}

func TestExtractFallbackOnMalformedContent(t *testing.T) {
	now := time.Unix(1e9, 0)
	srv := httptest.NewServer(chatHandler(t, `Sure! Here are the follow-up items you asked for.`))
	defer srv.Close()

	c := newTestClient(srv.URL, now)
	res := c.Extract(context.Background(), "note")
	assertFallback(t, res, now)
}

func TestExtractFallbackOnEmptyItems(t *testing.T) {
	now := time.Unix(1e9, 0)
	srv := httptest.NewServer(chatHandler(t, `{"checklist":[],"plan":[]}`))
	defer srv.Close()

	c := newTestClient(srv.URL, now)
	res := c.Extract(context.Background(), "note")
	assertFallback(t, res, now)
}

func assertFallback(t *testing.T, res *Result, now time.Time) {
	test.Equals(t, SourceFallback, res.Source)
	test.Equals(t, 1, len(res.Checklist))
	test.Equals(t, "Buy prescribed drug", res.Checklist[0].Description)
	test.Equals(t, 1, len(res.Plan))
	test.Equals(t, "Take drug daily for 7 days", res.Plan[0].Description)
	test.Equals(t, now.Add(24*time.Hour), res.Plan[0].Scheduled)
}
