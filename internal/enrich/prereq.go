package enrich

import (
	"fmt"

	"github.com/calegria/ytfill/internal/repositories"
	"github.com/calegria/ytfill/internal/shared"
)

// PrerequisiteChecker verifies that the reference tables enrichment depends on
// are populated. Read-only; whether to auto-seed and retry is the caller's
// decision.
type PrerequisiteChecker struct {
	refs *repositories.ReferenceRepository
}

// NewPrerequisiteChecker creates a checker over the given Querier.
func NewPrerequisiteChecker(q repositories.Querier) *PrerequisiteChecker {
	return &PrerequisiteChecker{refs: repositories.NewReferenceRepository(q)}
}

// Check returns a *shared.PrerequisiteError naming every empty reference
// table, or nil when all prerequisites are met.
func (c *PrerequisiteChecker) Check() error {
	var missing []string

	categories, err := c.refs.CountCategories()
	if err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}
	if categories == 0 {
		missing = append(missing, "categories")
	}

	topics, err := c.refs.CountTopics()
	if err != nil {
		return fmt.Errorf("failed to check topics: %w", err)
	}
	if topics == 0 {
		missing = append(missing, "topics")
	}

	if len(missing) > 0 {
		return &shared.PrerequisiteError{Missing: missing}
	}
	return nil
}
