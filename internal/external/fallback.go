// Package external wires the market-data providers together.
package external

import (
	"context"
	"errors"

	"github.com/verdictlab/verdict/internal/contracts"
	"github.com/verdictlab/verdict/pkg/logger"
)

// FallbackProvider tries each provider in order until one returns a usable
// snapshot. An unknown ticker is final; there is no point asking the next
// source for a name the first one has never heard of being wrong about.
type FallbackProvider struct {
	providers []contracts.MarketDataProvider
	logger    *logger.Logger
}

// NewFallbackProvider builds the chain. At least one provider is required.
func NewFallbackProvider(log *logger.Logger, providers ...contracts.MarketDataProvider) *FallbackProvider {
	return &FallbackProvider{providers: providers, logger: log}
}

// Fetch walks the chain and returns the first success or the last error.
func (f *FallbackProvider) Fetch(ctx context.Context, ticker string, years int) (*contracts.FinancialSnapshot, error) {
	var lastErr error
	for i, p := range f.providers {
		snap, err := p.Fetch(ctx, ticker, years)
		if err == nil {
			return snap, nil
		}
		lastErr = err

		if errors.Is(err, contracts.ErrNotFound) || ctx.Err() != nil {
			return nil, err
		}
		if i < len(f.providers)-1 {
			f.logger.WithError(err).WithField("ticker", ticker).Warn("Provider failed, trying fallback")
		}
	}
	return nil, lastErr
}
