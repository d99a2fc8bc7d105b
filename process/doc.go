// Package process cleans raw extracted tables and serializes them to CSV.
//
// Cleaning normalizes cell text, canonicalizes numeric values, drops empty
// rows and columns, and rectangularizes each table to its modal column
// count. Cleaning is idempotent: applying it twice yields the same result
// as applying it once.
//
// Serialization produces standard comma-delimited, double-quote-escaped CSV
// with a trailing newline and no BOM. Multiple tables are emitted as
// sections in source order, each preceded by a generated "Table N" header
// and separated by one blank row.
package process
