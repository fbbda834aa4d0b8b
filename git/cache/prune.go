package cache

import (
	"sort"
	"time"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/repo"
)

// Prune removes cached repositories selected by the given strategies and
// returns the identities it removed.
//
// Strategies are combined with OR logic. PruneToSize is applied last: it
// evicts the least recently accessed survivors until the remaining total
// fits. Repositories missing from the access index count as never accessed.
// With no strategies Prune does nothing.
//
// Examples:
//
//	// Remove repositories not accessed in 7 days
//	mgr.Prune(cache.PruneOlderThan(7*24*time.Hour))
//
//	// Multiple strategies
//	mgr.Prune(cache.PruneOlderThan(30*24*time.Hour), cache.PruneToSize(1<<30))
func (m *Manager) Prune(strategies ...PruneStrategy) ([]repo.Identity, error) {
	var sizeStrategy *pruneToSize
	var otherStrategies []PruneStrategy
	for _, strategy := range strategies {
		if ps, ok := strategy.(*pruneToSize); ok {
			sizeStrategy = ps
		} else {
			otherStrategies = append(otherStrategies, strategy)
		}
	}

	now := m.now()
	candidates := m.candidates()

	var toRemove []candidate
	var kept []candidate
	for _, c := range candidates {
		if shouldPrune(otherStrategies, &c.entry, now) {
			toRemove = append(toRemove, c)
		} else {
			kept = append(kept, c)
		}
	}

	if sizeStrategy != nil {
		toRemove = append(toRemove, m.applySizeStrategy(sizeStrategy, kept)...)
	}

	var removed []repo.Identity
	var failed int
	for _, c := range toRemove {
		if m.Remove(c.id) {
			removed = append(removed, c.id)
		} else {
			failed++
		}
	}

	m.logger.Info("pruned cache", "removed", len(removed), "failed", failed)

	if failed > 0 {
		return removed, errors.WithContext(
			errors.Newf(errors.CodeFilesystem, "failed to remove %d cached repositories", failed),
			"failed", failed)
	}
	return removed, nil
}

type candidate struct {
	id    repo.Identity
	entry Entry
	size  int64
}

// candidates returns every cached repository with its access record,
// oldest access first.
func (m *Manager) candidates() []candidate {
	ids := m.List()
	result := make([]candidate, 0, len(ids))
	for _, id := range ids {
		c := candidate{id: id, entry: Entry{Owner: id.Owner, Name: id.Name}}
		if entry := m.index.get(id); entry != nil {
			c.entry = *entry
		}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].entry.LastAccess.Before(result[j].entry.LastAccess)
	})
	return result
}

func shouldPrune(strategies []PruneStrategy, entry *Entry, now time.Time) bool {
	for _, strategy := range strategies {
		if strategy.ShouldPrune(entry, now) {
			return true
		}
	}
	return false
}

// applySizeStrategy picks the least recently accessed repositories to
// remove until the rest fit under the limit. kept must be sorted oldest first.
func (m *Manager) applySizeStrategy(strategy *pruneToSize, kept []candidate) []candidate {
	var total int64
	for i := range kept {
		kept[i].size = m.Size(kept[i].id)
		total += kept[i].size
	}

	var toRemove []candidate
	for _, c := range kept {
		if total <= strategy.maxBytes {
			break
		}
		toRemove = append(toRemove, c)
		total -= c.size
	}
	return toRemove
}
