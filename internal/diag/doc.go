// Package diag defines the diagnostic model shared by producers and
// renderers.
//
// # Purpose
//
//   - Provide an immutable, self-contained Diagnostic record that captures
//     one reported event: severity, resolved location, message, the text of
//     the reported line, clipped column ranges, and fix-it edits.
//   - Offer light-weight delivery utilities (Reporter, Handler, Bag) so
//     front ends can emit diagnostics without coupling to formatting or IO.
//
// # Scope
//
// Package diag performs no rendering and no IO. Annotated-snippet rendering
// lives in internal/diagfmt; applying fix-its to files lives in internal/fix.
//
// # Data model
//
// Build resolves a position against a source.Set once and snapshots
// everything rendering needs. After that the Diagnostic never changes and
// never reaches back into the set, which keeps it safe to hand to a Handler
// or collect in a Bag long after the front end moved on.
//
// Fix-its are data-only suggestions. Replacement text containing newlines,
// tabs, or carriage returns is kept in the model but reported as not
// renderable, since it cannot be drawn on a single annotated line.
//
// # Emitting
//
// Producers report through a Reporter. diagfmt.Emitter renders to an output
// sink (or calls an installed Handler instead); BagReporter collects;
// DedupReporter filters repeats. Severity has exactly four kinds; any policy
// on top of that is the caller's business.
package diag
