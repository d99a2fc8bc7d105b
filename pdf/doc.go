// Package pdf extracts tables from PDF documents through a cascade of
// strategies tried in configured order.
//
// Three strategies are built in:
//
//   - layout: clusters positioned text into aligned rows and columns.
//     Works on tables without ruling lines.
//   - lattice: parses content-stream drawing operators to find ruled
//     grids and places text into the cells they bound.
//   - whitespace: splits reconstructed text lines on wide horizontal
//     gaps. A last resort with unknown confidence.
//
// Each attempt runs under a timeout. The first strategy whose result has at
// least one non-empty table and an aggregate confidence at or above the
// viability threshold wins; if none qualifies, the attempt with the most
// cells is returned best-effort with a warning.
package pdf
