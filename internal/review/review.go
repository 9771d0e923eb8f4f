// Package review produces the one-line critic's verdict shown after a run.
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vovakirdan/beatrunner/internal/config"
)

// Fallback is shown whenever no review could be produced in time.
const Fallback = "Your runway walk lacked the conviction the main stage demands."

// Loading is shown while a review is pending.
const Loading = "Consulting the front row..."

// ErrEmpty is returned when a reviewer answers with no text.
var ErrEmpty = errors.New("review: empty review")

// Reviewer turns a final score into a short review.
type Reviewer interface {
	Review(ctx context.Context, score int) (string, error)
}

// New returns the HTTP reviewer when cfg names a URL, the built-in critic otherwise.
func New(cfg config.ReviewConfig) Reviewer {
	if cfg.URL == "" {
		return Local{}
	}
	return &HTTP{URL: cfg.URL}
}

// Fetch asks r for a review of score, giving up after timeout.
// It never fails: errors, timeouts and empty answers yield Fallback.
func Fetch(ctx context.Context, r Reviewer, score int, timeout time.Duration) string {
	if r == nil {
		return Fallback
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := r.Review(ctx, score)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		return Fallback
	}
	return text
}

// tier is a score threshold and the verdict for reaching it.
type tier struct {
	min  int
	text string
}

// Highest threshold first.
var tiers = []tier{
	{600, "A flawless walk. The front row forgot to breathe."},
	{300, "Sharp, on the beat and dressed for it. Next season is yours."},
	{150, "Confident steps with a few loose seams. The critics are listening."},
	{45, "A promising debut, though the bassline walked faster than you."},
	{0, ""},
}

// Local is the built-in critic. It answers instantly from score tiers.
type Local struct{}

// Review implements Reviewer.
func (Local) Review(ctx context.Context, score int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, t := range tiers {
		if score >= t.min {
			if t.text == "" {
				return Fallback, nil
			}
			return t.text, nil
		}
	}
	return Fallback, nil
}

// HTTP asks an external text service for the review. The service receives
// {"score": n} and answers {"review": "..."}.
type HTTP struct {
	URL    string
	Client *http.Client // nil uses http.DefaultClient
}

type request struct {
	Score int `json:"score"`
}

type response struct {
	Review string `json:"review"`
}

// Review implements Reviewer.
func (h *HTTP) Review(ctx context.Context, score int) (string, error) {
	body, err := json.Marshal(request{Score: score})
	if err != nil {
		return "", fmt.Errorf("review: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("review: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("review: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("review: unexpected status %s", resp.Status)
	}

	var out response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return "", fmt.Errorf("review: decode response: %w", err)
	}
	if strings.TrimSpace(out.Review) == "" {
		return "", ErrEmpty
	}
	return out.Review, nil
}
