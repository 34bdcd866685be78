package contracts

import "context"

// MarketDataProvider fetches a financial snapshot for a ticker. Providers may
// return fewer years than requested; callers must tolerate that. Failure
// modes are ErrNotFound, ErrRateLimited and ErrPartialData.
type MarketDataProvider interface {
	Fetch(ctx context.Context, ticker string, years int) (*FinancialSnapshot, error)
}

// ReasoningAgent generates a free-text role report from a prompt and
// assembled context. The returned text may be truncated; callers never
// assume any minimum length.
type ReasoningAgent interface {
	Generate(ctx context.Context, prompt string, role Role, contextText string) (string, error)
}
