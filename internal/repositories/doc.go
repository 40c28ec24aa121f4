// Package repositories provides persistence layer implementations for all
// model types.
//
// Repositories accept a [Querier] rather than a concrete *sql.DB so the same
// code runs against the database directly or inside a per-batch transaction
// owned by the reconciliation engine:
//
//   - [VideoRepository] : video CRUD, priority-tier selection and counts,
//     deleted-flag transitions, topic associations
//   - [ChannelRepository] : channel CRUD keyed by remote channel id
//   - [ReferenceRepository] : category/topic reference tables and seeders
//   - [LockRepository] : the single-row enrichment run lock
//
// The deleted flag on videos is only ever set by [VideoRepository.MarkDeleted],
// which the engine calls after a confirmed remote not-found result. Creation
// paths always produce deleted=false rows.
package repositories
