// Package models defines domain entities and persistence interfaces for the
// ytfill metadata archive.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs produced and consumed
// at package boundaries
//   - [EnrichmentReport] : Per-run audit artifact with summary counts and per-video detail
//   - [TierCounts] : Snapshot of how many videos fall into each priority tier
//   - [Status] : Tier counts plus the overall enrichment percentage
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Video] : Archived video metadata, enriched field-by-field from the remote API
//   - [Channel] : Channel metadata, created on demand during enrichment
//
// All persistent entities implement the Model interface providing ID
// generation, timestamps, and validation. The Repository[T] interface defines
// standard CRUD operations for database access.
//
// [Priority] is the cumulative eligibility tier (high ⊆ medium ⊆ low ⊆ all)
// used to decide which videos an enrichment run works on.
package models
