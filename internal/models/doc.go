// Package models defines the tasket domain types.
//
// All state for one user lives in a single nested document: a User owns a
// name-keyed map of Groups, and each Group owns ordered sequences of Events
// and Assignments. Events and Assignments have no ids of their own; they are
// addressed by position in their sequence.
//
// Timestamps are stored in canonical epoch form: int64 milliseconds since
// the Unix epoch.
//
// Deletion of a sequence element is two-phase: the slot is first overwritten
// with the Tombstone sentinel (keeping every other index stable), then a
// compaction pass removes all sentinels. Event and Assignment carry custom
// BSON codecs so that a tombstoned slot survives a whole-sequence rewrite
// as the sentinel string instead of being resurrected as a zero record.
package models
