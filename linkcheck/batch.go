package linkcheck

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/soumyaswe/Pravartak-AI-sub000/result"
	"github.com/soumyaswe/Pravartak-AI-sub000/urlutil"
)

// DefaultConcurrency is the batch size used when callers pass zero.
const DefaultConcurrency = 5

// ValidateBatch deduplicates urls and validates them in consecutive batches
// of concurrency. Every URL in a batch is checked at the same time and the
// next batch starts only when the whole batch is done. The result at index
// i belongs to the i-th distinct URL in input order.
func ValidateBatch(ctx context.Context, checker Checker, urls []string, concurrency int) ([]string, []ValidationResult) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	unique := urlutil.Dedupe(urls)
	results := make([]ValidationResult, len(unique))

	for start := 0; start < len(unique); start += concurrency {
		if err := ctx.Err(); err != nil {
			for i := start; i < len(unique); i++ {
				results[i] = ValidationResult{Error: err.Error(), Category: result.CategoryUnknown}
			}
			break
		}

		end := min(start+concurrency, len(unique))
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = checker.ValidateURL(ctx, unique[i])
				return nil
			})
		}
		_ = g.Wait() // checks report failures in their results
	}

	return unique, results
}

// ValidateURLs returns the distinct final URLs of the live entries in urls.
// Distinct inputs that redirect to the same place yield one entry.
func ValidateURLs(ctx context.Context, checker Checker, urls []string, concurrency int) []string {
	_, results := ValidateBatch(ctx, checker, urls, concurrency)
	var live []string
	for _, res := range results {
		if res.Valid && res.FinalURL != "" {
			live = append(live, res.FinalURL)
		}
	}
	return urlutil.Dedupe(live)
}
