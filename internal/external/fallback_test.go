package external

import (
	"context"
	"errors"
	"testing"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/pkg/logger"
)

type stubProvider struct {
	snap  *contracts.FinancialSnapshot
	err   error
	calls int
}

func (s *stubProvider) Fetch(ctx context.Context, ticker string, years int) (*contracts.FinancialSnapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestFallbackUsesSecondProvider(t *testing.T) {
	primary := &stubProvider{err: contracts.ErrRateLimited}
	secondary := &stubProvider{snap: &contracts.FinancialSnapshot{Ticker: "ACME"}}

	f := NewFallbackProvider(logger.NewNop(), primary, secondary)
	snap, err := f.Fetch(context.Background(), "ACME", 5)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.Ticker != "ACME" {
		t.Errorf("ticker = %s", snap.Ticker)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("calls = %d/%d", primary.calls, secondary.calls)
	}
}

func TestFallbackNotFoundIsFinal(t *testing.T) {
	primary := &stubProvider{err: contracts.ErrNotFound}
	secondary := &stubProvider{snap: &contracts.FinancialSnapshot{}}

	f := NewFallbackProvider(logger.NewNop(), primary, secondary)
	_, err := f.Fetch(context.Background(), "NOPE", 5)
	if !errors.Is(err, contracts.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if secondary.calls != 0 {
		t.Error("fallback consulted for unknown ticker")
	}
}

func TestFallbackReturnsLastError(t *testing.T) {
	primary := &stubProvider{err: contracts.ErrRateLimited}
	secondary := &stubProvider{err: contracts.ErrPartialData}

	f := NewFallbackProvider(logger.NewNop(), primary, secondary)
	_, err := f.Fetch(context.Background(), "ACME", 5)
	if !errors.Is(err, contracts.ErrPartialData) {
		t.Fatalf("err = %v", err)
	}
}
