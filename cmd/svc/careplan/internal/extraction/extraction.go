// Package extraction derives actionable follow-up items from the free text
// of a clinical note using a chat-completions model endpoint. Extraction is
// best effort: any failure yields a fixed fallback so note submission never
// blocks on the model.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bitmap357/hospital-test/libs/clock"
	"github.com/bitmap357/hospital-test/libs/golog"
	"github.com/samuel/go-metrics/metrics"
)

const defaultBaseURL = "https://api.openai.com/v1"

const systemPrompt = `You are a clinical assistant. Given a doctor's note, extract follow-up items. ` +
	`Respond with a JSON object of the form {"checklist":[{"description":string}],` +
	`"plan":[{"description":string,"scheduled_time_offset_days":number}]}. ` +
	`Checklist items are one-off tasks. Plan items are recurring daily tasks with the ` +
	`number of days from now the first occurrence is due. Respond with JSON only.`

// Source indicates how a Result was produced.
type Source string

const (
	// SourceExtracted means the items came from the model reply.
	SourceExtracted Source = "EXTRACTED"
	// SourceFallback means extraction failed and the fixed fallback was used.
	SourceFallback Source = "FALLBACK"
)

// ChecklistItem is a one-off follow-up task.
type ChecklistItem struct {
	Description string
}

// PlanItem is a recurring follow-up task with the time its first reminder is due.
type PlanItem struct {
	Description string
	Scheduled   time.Time
}

// Result is the outcome of extracting a note. It is always populated.
type Result struct {
	Source    Source
	Checklist []ChecklistItem
	Plan      []PlanItem
}

type Client struct {
	key               string
	model             string
	baseURL           string
	httpClient        *http.Client
	clk               clock.Clock
	statExtracted     *metrics.Counter
	statFallback      *metrics.Counter
	statRequestFailed *metrics.Counter
}

// NewClient returns a client for the chat-completions endpoint at baseURL
// (the production endpoint when empty).
func NewClient(key, model, baseURL string, clk clock.Clock, metricsRegistry metrics.Registry) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		key:     key,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		clk:               clk,
		statExtracted:     metrics.NewCounter(),
		statFallback:      metrics.NewCounter(),
		statRequestFailed: metrics.NewCounter(),
	}
	if metricsRegistry != nil {
		metricsRegistry.Add("extract/extracted", c.statExtracted)
		metricsRegistry.Add("extract/fallback", c.statFallback)
		metricsRegistry.Add("extract/request_failed", c.statRequestFailed)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type extractedItems struct {
	Checklist []struct {
		Description string `json:"description"`
	} `json:"checklist"`
	Plan []struct {
		Description             string  `json:"description"`
		ScheduledTimeOffsetDays float64 `json:"scheduled_time_offset_days"`
	} `json:"plan"`
}

// Extract derives follow-up items from the note text. It never fails: any
// transport, decoding, or content problem produces the fallback result.
func (c *Client) Extract(ctx context.Context, note string) *Result {
	now := c.clk.Now()
	items, err := c.complete(ctx, note)
	if err != nil {
		golog.Warningf("extraction: falling back to default items: %s", err)
		c.statRequestFailed.Inc(1)
		return c.fallback(now)
	}
	if len(items.Checklist) == 0 && len(items.Plan) == 0 {
		golog.Warningf("extraction: model returned no items, falling back")
		return c.fallback(now)
	}
	res := &Result{Source: SourceExtracted}
	for _, it := range items.Checklist {
		if it.Description == "" {
			continue
		}
		res.Checklist = append(res.Checklist, ChecklistItem{Description: it.Description})
	}
	for _, it := range items.Plan {
		if it.Description == "" {
			continue
		}
		offsetDays := it.ScheduledTimeOffsetDays
		if offsetDays < 1 {
			offsetDays = 1
		}
		res.Plan = append(res.Plan, PlanItem{
			Description: it.Description,
			Scheduled:   now.Add(time.Duration(offsetDays * float64(24*time.Hour))),
		})
	}
	if len(res.Checklist) == 0 && len(res.Plan) == 0 {
		golog.Warningf("extraction: model items all empty, falling back")
		return c.fallback(now)
	}
	c.statExtracted.Inc(1)
	return res
}

func (c *Client) complete(ctx context.Context, note string) (*extractedItems, error) {
	body, err := json.Marshal(&chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Doctor's note:\n" + note},
		},
		Temperature: 0.2,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction: completion request returned status %d", resp.StatusCode)
	}
	var cres chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cres); err != nil {
		return nil, fmt.Errorf("extraction: failed to decode completion response: %s", err)
	}
	if len(cres.Choices) == 0 {
		return nil, fmt.Errorf("extraction: completion response contained no choices")
	}
	var items extractedItems
	if err := json.Unmarshal([]byte(cres.Choices[0].Message.Content), &items); err != nil {
		return nil, fmt.Errorf("extraction: failed to parse items from completion content: %s", err)
	}
	return &items, nil
}

func (c *Client) fallback(now time.Time) *Result {
	c.statFallback.Inc(1)
	return &Result{
		Source: SourceFallback,
		Checklist: []ChecklistItem{
			{Description: "Buy prescribed drug"},
		},
		Plan: []PlanItem{
			{Description: "Take drug daily for 7 days", Scheduled: now.Add(24 * time.Hour)},
		},
	}
}
