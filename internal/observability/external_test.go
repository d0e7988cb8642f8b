package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/localnerve/lexideck/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveExternalRecordsOutcome(t *testing.T) {
	before := testutil.CollectAndCount(ExternalDuration)

	err := ObserveExternal(context.Background(), "test_ok", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := errors.New("boom")
	err = ObserveExternal(context.Background(), "test_fail", func(ctx context.Context) error {
		return types.Unavailable("test_fail", want)
	})
	if !errors.Is(err, want) {
		t.Fatalf("Expected error to pass through, got %v", err)
	}

	if got := testutil.CollectAndCount(ExternalDuration); got != before+2 {
		t.Errorf("Expected %d series, got %d", before+2, got)
	}
}

func TestOutcome(t *testing.T) {
	tests := map[string]error{
		"ok":          nil,
		"timeout":     fmt.Errorf("call: %w", context.DeadlineExceeded),
		"canceled":    context.Canceled,
		"unavailable": types.Unavailable("translation", errors.New("502")),
		"error":       errors.New("other"),
	}
	for want, err := range tests {
		if got := Outcome(err); got != want {
			t.Errorf("Outcome(%v) = %s, want %s", err, got, want)
		}
	}
}
