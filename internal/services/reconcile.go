package services

import (
	"sort"
	"time"

	"tzschedule/internal/domain"
)

// normalizeIDSet deduplicates, drops empty entries, and sorts, giving the
// slice set semantics with a stable order.
func normalizeIDSet(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// diffProfileIDs computes the minimal assignment delta between the persisted
// profile set and the desired one: toAdd = desired − current, toRemove =
// current − desired. The results are disjoint and duplicate-free.
func diffProfileIDs(current, desired []string) (toAdd, toRemove []string) {
	cur := make(map[string]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	des := make(map[string]struct{}, len(desired))
	for _, id := range desired {
		des[id] = struct{}{}
	}
	for id := range des {
		if _, ok := cur[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range cur {
		if _, ok := des[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}

// applyDelta resolves a caller-supplied add/remove pair into the desired
// profile set: (current ∪ add) − remove. IDs appearing in both add and
// remove end up removed.
func applyDelta(current, add, remove []string) []string {
	des := make(map[string]struct{}, len(current)+len(add))
	for _, id := range normalizeIDSet(current) {
		des[id] = struct{}{}
	}
	for _, id := range normalizeIDSet(add) {
		des[id] = struct{}{}
	}
	for _, id := range normalizeIDSet(remove) {
		delete(des, id)
	}
	out := make([]string, 0, len(des))
	for id := range des {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// changeSet accumulates field-level diffs for one update-log entry. Fields
// whose values did not change produce no record; an empty changeSet means the
// update was a no-op and must not be logged.
type changeSet struct {
	changes []domain.FieldChange
}

func (c *changeSet) addString(field, previous, next string) {
	if previous == next {
		return
	}
	c.changes = append(c.changes, domain.FieldChange{Field: field, Previous: previous, Next: next})
}

func (c *changeSet) addTime(field string, previous, next time.Time) {
	if previous.Equal(next) {
		return
	}
	c.changes = append(c.changes, domain.FieldChange{
		Field:    field,
		Previous: previous.UTC().Format(time.RFC3339),
		Next:     next.UTC().Format(time.RFC3339),
	})
}

// addIDs records an assignment delta field (addProfileIds/removeProfileIds)
// when the delta is non-empty.
func (c *changeSet) addIDs(field string, ids []string) {
	if len(ids) == 0 {
		return
	}
	c.changes = append(c.changes, domain.FieldChange{Field: field, Previous: []string{}, Next: ids})
}

func (c *changeSet) empty() bool { return len(c.changes) == 0 }
