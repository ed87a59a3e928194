// Package persist saves and loads the inventory catalog.
//
// Three interchangeable strategies implement Adapter:
//
//   - text: one record per line, fields id,name,quantity,price joined by a
//     single delimiter (comma by default). No escaping: a name containing the
//     delimiter is written as-is and breaks that row on the next load.
//   - binary: a single opaque blob (magic "STKR", a version byte, then a gob
//     stream of the ordered record sequence).
//   - sqlite: a SQLite database holding one row per record, ordered by seq.
//
// # Contract
//
//   - Load on a missing file returns an empty sequence and no error.
//   - Load on an existing file that cannot be decoded returns *FormatError.
//     Failures of the medium itself are *IOError. Callers decide whether to
//     start empty; the adapter never hides the distinction.
//   - Save replaces the whole content atomically. On failure the previous
//     file is left as it was.
//   - Every Load and Save holds an exclusive advisory lock on "<path>.lock"
//     for its duration and releases it on every return path.
package persist
