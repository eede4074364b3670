// Package store owns all parsed documents of one dataset snapshot.
//
// Load parses raw records in a bounded worker pool, assigns dense document
// identifiers in input order (so the degree of parallelism never changes the
// identifiers or the cache bytes), populates the key index, and rejects the
// whole load if any structural or duplicate-key error occurred. A partially
// valid store would undermine every downstream guarantee, so load failure is
// all-or-nothing.
//
// After a successful load the store is conceptually immutable; the one
// exception is the resolver's single rewrite pass, which replaces symbolic
// references with links before any concurrent reader exists. Checks and the
// query facade then share the store without locking.
package store
