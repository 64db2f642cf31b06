// Package aeo turns content records into Schema.org structured data and
// produces metadata suggestions for them.
//
// The schema side is deterministic: a registry of per-type rules drives a
// single compiler that emits JSON-LD, with breadcrumb and reading-time
// derivation. The suggestion side runs content through a SuggestionProvider
// (a free local heuristic or a costed remote AI model) under a per-user
// usage ledger, and merges accepted suggestions with manual edits.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package aeo
