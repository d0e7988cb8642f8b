package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/localnerve/lexideck/internal/types"
)

type staticTranslator struct {
	out   string
	calls int
}

func (s *staticTranslator) Translate(ctx context.Context, text string) (string, error) {
	s.calls++
	return s.out, nil
}

func TestVerdictTiers(t *testing.T) {
	tests := map[float64]string{
		100:   VerdictHigh,
		80:    VerdictHigh,
		79.99: VerdictAcceptable,
		50:    VerdictAcceptable,
		49.9:  VerdictMachine,
		0:     VerdictMachine,
	}
	for score, want := range tests {
		if got := Verdict(score); got != want {
			t.Errorf("Verdict(%v) = %q, want %q", score, got, want)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	m := TokenOverlap{}
	ctx := context.Background()

	tests := []struct {
		ref, cand string
		want      float64
	}{
		{"con mèo", "Con mèo.", 100},
		{"con mèo", "con mèo", 100},
		{"con mèo đen", "con chó", 40},
		{"con mèo", "", 0},
		{"a b", "c d", 0},
	}
	for _, tt := range tests {
		got, err := m.Score(ctx, tt.ref, tt.cand)
		if err != nil {
			t.Fatalf("Score failed: %v", err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.ref, tt.cand, got, tt.want)
		}
	}
}

func TestEvaluateBlankInputs(t *testing.T) {
	tr := &staticTranslator{out: "con mèo"}
	e := &Evaluator{Translator: tr, Metric: TokenOverlap{}}

	for _, in := range [][2]string{{"", "con mèo"}, {"cat", "  "}} {
		res, err := e.Evaluate(context.Background(), in[0], in[1])
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if res.Score != 0 || res.Message != NothingToCompare {
			t.Errorf("Expected nothing to compare, got %+v", res)
		}
	}
	if tr.calls != 0 {
		t.Errorf("Expected no translation calls, got %d", tr.calls)
	}
}

func TestEvaluate(t *testing.T) {
	e := &Evaluator{Translator: &staticTranslator{out: "con mèo"}, Metric: TokenOverlap{}}
	res, err := e.Evaluate(context.Background(), "cat", "con mèo")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Score != 100 || res.Verdict != VerdictHigh || res.Reference != "con mèo" {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestHTTPMetric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Reference != "con mèo" || req.Candidate != "mèo" {
			t.Errorf("Unexpected request %+v", req)
		}
		w.Write([]byte(`{"score": 66.5}`))
	}))
	defer srv.Close()

	score, err := NewHTTPMetric(srv.URL, time.Second).Score(context.Background(), "con mèo", "mèo")
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 66.5 {
		t.Errorf("Expected 66.5, got %v", score)
	}
}

func TestHTTPMetricUnavailable(t *testing.T) {
	for _, body := range []string{`{}`, `nope`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		_, err := NewHTTPMetric(srv.URL, time.Second).Score(context.Background(), "a", "b")
		srv.Close()
		if !errors.Is(err, types.ErrServiceUnavailable) {
			t.Errorf("body %s: expected ErrServiceUnavailable, got %v", body, err)
		}
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	if _, err := NewHTTPMetric(down.URL, time.Second).Score(context.Background(), "a", "b"); !errors.Is(err, types.ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable, got %v", err)
	}
}
