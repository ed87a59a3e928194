// Package inventory holds the in-memory catalog of stock records.
//
// A Store is an ordered list of Records scanned linearly by integer id.
// Insertion order is preserved and is the order List returns.
//
// # Invariants
//
//   - Quantity and Price are never negative. Add, Update and Sell reject any
//     change that would break this and leave the Store untouched.
//   - Id uniqueness is a policy choice. Under DuplicatesPermit (the legacy
//     behaviour) several records may share an id and lookups return the
//     first one. Under DuplicatesReject, Add fails with a CONFLICT error.
//   - Update and Remove on an absent id are no-ops under MissingIgnore and
//     fail with NOT_FOUND under MissingError. Find and Sell always fail with
//     NOT_FOUND.
//
// A Store is not safe for concurrent use. Callers issue one operation at a
// time and treat each as a single logical transaction.
package inventory
