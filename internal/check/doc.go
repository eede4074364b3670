// Package check runs the semantic validation battery over a resolved store.
//
// A check is a pure, read-only function from the store to a finite list of
// findings. Checks are independent: the engine runs each one in isolation,
// recovers a panicking check into a single internal-error finding, and never
// lets one bad validator blind the run to the others.
//
// The engine may run checks in parallel because the store is immutable once
// resolution has finished, but the report stays reproducible: findings are
// ordered by check registration order first and each check's own emission
// order second, never by completion order.
package check
