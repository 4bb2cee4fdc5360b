package roster

import "context"

// Resolver picks an available doctor for a specialist category. Read-only.
type Resolver struct {
	repo Repository
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the active doctor with the lowest priority rank for the
// category, ties broken by first-encountered row order. Returns nil when no
// active doctor matches.
func (r *Resolver) Resolve(ctx context.Context, category string) (*Entry, error) {
	entries, err := r.repo.ActiveByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	var best *Entry
	for i := range entries {
		if best == nil || entries[i].PriorityRank < best.PriorityRank {
			best = &entries[i]
		}
	}
	return best, nil
}
