package enrich

import (
	"github.com/calegria/ytfill/internal/services"
)

// DefaultBatchSize matches the remote API's per-call item limit.
const DefaultBatchSize = services.MaxBatchSize

// EstimateQuotaCost returns the number of remote calls needed to reconcile n
// videos at the given batch size: ceil(n/batchSize). Non-positive n costs
// nothing; batchSize <= 0 falls back to the default.
func EstimateQuotaCost(n, batchSize int) int {
	if n <= 0 {
		return 0
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return (n + batchSize - 1) / batchSize
}
