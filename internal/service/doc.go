// Package service contains the entity mutators and the aggregation service.
//
// Every mutator follows the same shape: validate referenced state by reading
// through the local cache (falling back to a store read on miss), compute the
// changed entity in memory, write it to the cache immediately, hand the
// authoritative writes to the reconciler and the relationship manager, and
// return the in-memory value without waiting for the store to converge.
//
// Expected failures (missing referenced entity, store unavailable) produce
// nil/false sentinel returns, never errors: callers check return values, not
// exceptions. Malformed stored data is logged at the mutator boundary and
// degrades to the same sentinel shape.
package service
