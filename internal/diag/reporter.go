package diag

import "caret/internal/source"

// Reporter is the minimal contract for delivering diagnostics from a front
// end. Implementations: diagfmt.Emitter (render to a sink), BagReporter
// (collect), DedupReporter (filter), or anything a test installs.
type Reporter interface {
	Report(pos source.Pos, sev Severity, msg string, ranges []source.Range, fixits []FixIt)
}

// Handler is the delivery hook: when installed on an emitter it receives
// every built Diagnostic and fully replaces default rendering and printing.
// Any context the handler needs travels in its closure.
type Handler func(Diagnostic)

// BagReporter builds diagnostics against Set and collects them into Bag.
type BagReporter struct {
	Set *source.Set
	Bag *Bag
}

func (r BagReporter) Report(pos source.Pos, sev Severity, msg string, ranges []source.Range, fixits []FixIt) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Build(r.Set, pos, sev, msg, ranges, fixits))
}

type dedupKey struct {
	sev Severity
	pos source.Pos
	msg string
}

// DedupReporter wraps another Reporter and suppresses diagnostics repeating
// the same severity, position, and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that forwards only unique diagnostics.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(pos source.Pos, sev Severity, msg string, ranges []source.Range, fixits []FixIt) {
	if r == nil {
		return
	}
	key := dedupKey{sev: sev, pos: pos, msg: msg}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(pos, sev, msg, ranges, fixits)
	}
}
