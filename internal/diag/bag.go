package diag

import "sort"

// Bag collects diagnostics up to a fixed cap, for callers that want to
// gather first and render or apply fixes later.
type Bag struct {
	items []Diagnostic
	max   int
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   max,
	}
}

// Add appends a diagnostic, honoring the cap. Returns false when the bag is
// full and the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the collected diagnostics. The slice aliases the bag's
// internal storage; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// HasErrors reports whether at least one collected diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity == SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether at least one collected diagnostic is a warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			return true
		}
	}
	return false
}

// Merge appends the diagnostics of other, growing the cap when needed.
func (b *Bag) Merge(other *Bag) {
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, line, column, then severity for stable,
// deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Filename != dj.Filename {
			return di.Filename < dj.Filename
		}
		if di.Pos != dj.Pos {
			return di.Pos < dj.Pos
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})
}

// Dedup drops diagnostics repeating the same severity, position, and message.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		key := dedupKey{sev: d.Severity, pos: d.Pos, msg: d.Message}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, d)
	}
	b.items = kept
}
