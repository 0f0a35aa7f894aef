package aggregator

import (
	"context"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

// SourceCall fetches one provider's contribution to an aggregation.
type SourceCall func(ctx context.Context) ([]domain.Token, error)

// GatherResult separates settled provider calls into successes and failures
// so partial-failure handling stays visible at the orchestration layer.
type GatherResult struct {
	OK     [][]domain.Token
	Failed []error
}

// Gather runs every call concurrently and waits for all of them to settle.
// One provider's failure never aborts the others.
func Gather(ctx context.Context, calls ...SourceCall) GatherResult {
	type settled struct {
		idx    int
		tokens []domain.Token
		err    error
	}

	results := make(chan settled, len(calls))
	for i, call := range calls {
		go func(i int, call SourceCall) {
			tokens, err := call(ctx)
			results <- settled{idx: i, tokens: tokens, err: err}
		}(i, call)
	}

	// Keep successes in call order so results are reproducible regardless of
	// settlement order.
	byIdx := make([][]domain.Token, len(calls))
	errs := make([]error, len(calls))
	for range calls {
		r := <-results
		if r.err != nil {
			errs[r.idx] = r.err
			continue
		}
		byIdx[r.idx] = r.tokens
	}

	var out GatherResult
	for i := range calls {
		if errs[i] != nil {
			out.Failed = append(out.Failed, errs[i])
			continue
		}
		out.OK = append(out.OK, byIdx[i])
	}
	return out
}
