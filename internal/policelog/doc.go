// Package policelog turns the plain-text police dispatch summary into
// incident rows. The pipeline is a chain of pure stages: Filter drops
// decorative lines and marks the end of every incident, Split cuts the
// filtered text at those marks, Extract applies tolerant per-field patterns
// to each chunk, DeriveGrid pulls the map grid out of the address, and
// Assemble collects the rows into a Table ready for CSV output.
//
// Nothing in this package fails on malformed input. A field that does not
// match is left empty, and every chunk yields exactly one row.
package policelog
