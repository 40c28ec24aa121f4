// Package enrich implements the enrichment reconciliation engine.
//
// The core abstraction is [Engine], which selects archive videos whose
// metadata is still placeholder or partial, fetches the authoritative values
// from the remote provider in batches, and reconciles the archive: updating
// enrichable fields, creating channels on demand, and marking videos the
// provider no longer knows as deleted.
//
// One batch (at most 50 ids, one remote call, one transaction) is the unit of
// atomicity, durability, and resumability. Quota exhaustion and shutdown
// requests stop the run between batches and surface as
// shared.RunInterruptedError carrying the processed count; committed batches
// are never lost, so re-running continues where the previous run stopped.
//
// Supporting pieces: [PrerequisiteChecker] gates a run on seeded reference
// tables, [ShutdownCoordinator] turns process signals into a cooperative flag
// observed at batch boundaries, [StatusReporter] aggregates tier counts
// without locking, and the placeholder/quota helpers are pure functions.
package enrich
