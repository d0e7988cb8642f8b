// Package scoring compares a user's translation with the machine one.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/localnerve/lexideck/internal/observability"
	"github.com/localnerve/lexideck/internal/translation"
	"github.com/localnerve/lexideck/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Verdicts
const (
	VerdictHigh       = "highly accurate"
	VerdictAcceptable = "semantically acceptable"
	VerdictMachine    = "machine translation more accurate"

	NothingToCompare = "nothing to compare"
)

// Metric scores a candidate against a reference on a 0..100 scale.
type Metric interface {
	Score(ctx context.Context, reference, candidate string) (float64, error)
}

// Verdict maps a score to its tier.
func Verdict(score float64) string {
	switch {
	case score >= 80:
		return VerdictHigh
	case score >= 50:
		return VerdictAcceptable
	}
	return VerdictMachine
}

// TokenOverlap is the unigram F1 of case-folded, NFC-normalized word tokens.
type TokenOverlap struct{}

func (TokenOverlap) Score(_ context.Context, reference, candidate string) (float64, error) {
	ref := tokenize(reference)
	cand := tokenize(candidate)
	if len(ref) == 0 || len(cand) == 0 {
		return 0, nil
	}

	counts := make(map[string]int, len(ref))
	for _, tok := range ref {
		counts[tok]++
	}
	var overlap int
	for _, tok := range cand {
		if counts[tok] > 0 {
			counts[tok]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0, nil
	}

	precision := float64(overlap) / float64(len(cand))
	recall := float64(overlap) / float64(len(ref))
	return 2 * precision * recall / (precision + recall) * 100, nil
}

func tokenize(s string) []string {
	s = cases.Fold().String(norm.NFC.String(s))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r)
	})
}

// HTTPMetric delegates scoring to an external service.
type HTTPMetric struct {
	URL    string
	Client *http.Client
}

// NewHTTPMetric builds a metric whose requests are bounded by timeout.
func NewHTTPMetric(url string, timeout time.Duration) *HTTPMetric {
	return &HTTPMetric{URL: url, Client: &http.Client{Timeout: timeout}}
}

type scoreRequest struct {
	Reference string `json:"reference"`
	Candidate string `json:"candidate"`
}

type scoreResponse struct {
	Score *float64 `json:"score"`
}

func (m *HTTPMetric) Score(ctx context.Context, reference, candidate string) (float64, error) {
	var score float64
	err := observability.ObserveExternal(ctx, "scoring", func(ctx context.Context) error {
		var err error
		score, err = m.call(ctx, reference, candidate)
		return err
	})
	return score, err
}

func (m *HTTPMetric) call(ctx context.Context, reference, candidate string) (float64, error) {
	body, err := json.Marshal(scoreRequest{Reference: reference, Candidate: candidate})
	if err != nil {
		return 0, types.Unavailable("scoring", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(body))
	if err != nil {
		return 0, types.Unavailable("scoring", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return 0, types.Unavailable("scoring", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, types.Unavailable("scoring", fmt.Errorf("status %d", resp.StatusCode))
	}

	var out scoreResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return 0, types.Unavailable("scoring", fmt.Errorf("decode response: %w", err))
	}
	if out.Score == nil || math.IsNaN(*out.Score) {
		return 0, types.Unavailable("scoring", fmt.Errorf("missing score"))
	}
	return math.Max(0, math.Min(100, *out.Score)), nil
}

// Result of one evaluation
type Result struct {
	Score     float64 `json:"score"`
	Verdict   string  `json:"verdict"`
	Reference string  `json:"reference"`
	Message   string  `json:"message,omitempty"`
}

// Evaluator scores a user's translation of source against the machine translation.
type Evaluator struct {
	Translator translation.Translator
	Metric     Metric
}

// Evaluate returns a zero result with NothingToCompare, without calling
// anything, when either input is blank.
func (e *Evaluator) Evaluate(ctx context.Context, source, userTranslation string) (Result, error) {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(userTranslation) == "" {
		return Result{Score: 0, Message: NothingToCompare}, nil
	}

	reference, err := translation.Translate(ctx, e.Translator, source)
	if err != nil {
		return Result{}, err
	}

	score, err := e.Metric.Score(ctx, reference, userTranslation)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Score:     score,
		Verdict:   Verdict(score),
		Reference: reference,
	}, nil
}
