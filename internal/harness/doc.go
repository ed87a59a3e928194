// Package harness runs catalog scenarios end to end.
//
// A scenario seeds a catalog file, opens a manager on it, applies a list of
// steps (add, find, sell, update, remove, clear, save, reload) and checks
// each step's outcome, the final records and, optionally, that the saved
// file reloads to the same records.
//
// # Scenario Format
//
//	name: sell-reduces-stock
//	description: selling decrements quantity
//	strategy: text            # text | binary | sqlite, default text
//	policy: {duplicates: permit, missing: ignore}
//	setup:
//	  - {id: 1, name: Sofa, price: "499.99", quantity: 5}
//	steps:
//	  - {op: sell, id: 1, quantity: 2}
//	  - {op: sell, id: 1, quantity: 100, expect: INSUFFICIENT_STOCK}
//	final:
//	  - {id: 1, name: Sofa, price: "499.99", quantity: 3}
//	reload: true
//
// A step without expect must succeed. Steps may also check the affected
// count (count) of update and remove, or the record returned by find and
// sell (want). final is only checked when present; "final: []" asserts an
// empty catalog.
//
// # Determinism
//
// Every run uses a fresh directory and a fixed session id, so the trace
// rendered by Result.Snapshot is stable and suitable for golden files.
package harness
