// Package model defines the canonical data types shared by every stage of
// the conversion pipeline: the in-memory table representation produced by
// extractors, the per-strategy extraction outcome consumed by the cascade,
// and the statistics, quality metrics, and result envelope returned to
// callers.
//
// Types in this package carry no behavior beyond accessors and invariant
// checks. Extraction, cleaning, and scoring live in their own packages.
package model
