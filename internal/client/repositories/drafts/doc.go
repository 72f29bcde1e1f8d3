// Package drafts provides the local persistence layer for wizard drafts.
//
// # Overview
//
// The package defines a Repository interface over draft records (see
// internal/client/models) and a SQLite implementation bound to a dbx.DBTX.
// A draft is addressed by (entity type, slot); writing the same key again
// replaces the stored payload in full.
//
// # Contract
//
//   - Get returns (nil, nil) when no row exists, like a cache miss.
//   - Delete is idempotent: deleting an absent key is not an error.
//   - DeleteOlderThan removes stale drafts and reports how many went.
//
// The repository does not interpret payloads; decoding and the "no usable
// draft" policy belong to internal/client/draft.
//
// Typical Usage
//
//	repo := drafts.NewSQLiteRepository(db)
//	_ = repo.Put(ctx, &models.Draft{EntityType: "quote", Slot: models.Unsaved(), Payload: b, UpdatedAt: now})
//	d, _ := repo.Get(ctx, "quote", models.Unsaved())
//	_ = repo.Delete(ctx, "quote", models.Unsaved())
package drafts
