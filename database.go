// Package vcached is the database façade: it wires the bucketed-arena
// table (package table), the external-ID registry (package registry), and
// the persistent record boundary (package recordstore) into a single
// handle, replaying the record store at Open so the index is rebuilt from
// disk on every boot.
package vcached

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vcached-io/vcached/internal/simd"
	"github.com/vcached-io/vcached/recordstore"
	"github.com/vcached-io/vcached/registry"
	"github.com/vcached-io/vcached/table"
)

func simdCapability() string { return simd.CapabilityString() }

// Match pairs an external record ID with its similarity score, the
// external-facing equivalent of table.MatchResult.
type Match struct {
	ExternalID string
	Score      float32
}

// Database wires a table, a registry, and a persistent record store into
// one handle. Its own operations never nest the table's lock inside the
// registry's or vice versa.
type Database struct {
	name    string
	table   *table.Table
	reg     *registry.Registry
	records recordstore.Storage
	logger  *Logger
}

// Open creates (or reopens) a database named name, with the given
// dimension and mode, replaying every record in records whose embedding
// dimension matches before returning. logger may be nil, in which case a
// NoopLogger is used.
func Open(ctx context.Context, name string, dims int, modeName string, records recordstore.Storage, logger *Logger) (*Database, error) {
	if logger == nil {
		logger = NoopLogger()
	}

	mode, err := table.ParseMode(modeName)
	if err != nil {
		return nil, translateError(err)
	}

	tb, err := table.Open(dims, mode)
	if err != nil {
		return nil, translateError(err)
	}

	db := &Database{
		name:    name,
		table:   tb,
		reg:     registry.New(),
		records: records,
		logger:  logger,
	}

	replayed, skipped, err := db.replay(ctx)
	logger.LogOpen(ctx, name, dims, mode.String(), replayed, skipped, err)

	if err != nil {
		return nil, err
	}

	return db, nil
}

// replay iterates every record in the persistent store and reinserts every
// embedding matching the table's dimension, skipping and counting
// mismatches. Records are loaded from disk concurrently (the I/O-bound
// part); each successful load is inserted into the table, which serializes
// the actual mutation under its own lock.
func (db *Database) replay(ctx context.Context) (replayed, skipped int, err error) {
	ids, err := db.records.List()
	if err != nil {
		return 0, 0, err
	}

	var nReplayed, nSkipped int64

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			rec, err := db.records.Load(id)
			if err != nil {
				return err
			}

			for _, emb := range rec.Embeddings {
				if len(emb) != db.table.Dims() {
					atomic.AddInt64(&nSkipped, 1)
					continue
				}

				internalID, err := db.table.Insert(emb)
				if err != nil {
					return err
				}

				db.reg.Associate(internalID, rec.ID)
				atomic.AddInt64(&nReplayed, 1)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(nReplayed), int(nSkipped), err
	}

	return int(nReplayed), int(nSkipped), nil
}

// Insert stores data alongside vector, persists it as a record, inserts
// the vector into the table, and registers the association. It returns the
// record's external ID.
func (db *Database) Insert(ctx context.Context, vector []float32, data map[string]any) (string, error) {
	rec := &recordstore.Record{Embeddings: [][]float32{vector}, Data: data}

	if err := db.records.Save(rec); err != nil {
		return "", err
	}

	internalID, err := db.table.Insert(vector)
	if err != nil {
		db.logger.LogInsert(ctx, internalID, len(vector), err)
		return "", translateError(err)
	}

	db.reg.Associate(internalID, rec.ID)
	db.logger.LogInsert(ctx, internalID, len(vector), nil)

	return rec.ID, nil
}

// Delete removes the record and vector named by externalID. Unknown IDs
// return ErrNotFound; deleting from the table itself is always a no-op on
// an unmatched internal ID.
func (db *Database) Delete(ctx context.Context, externalID string) error {
	internalID, ok := db.reg.ForgetExternal(externalID)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotFound, externalID)
		db.logger.LogDelete(ctx, -1, err)

		return err
	}

	if err := db.table.Delete(internalID); err != nil {
		db.logger.LogDelete(ctx, internalID, err)
		return translateError(err)
	}

	if err := db.records.Delete(externalID); err != nil {
		db.logger.LogDelete(ctx, internalID, err)
		return err
	}

	db.logger.LogDelete(ctx, internalID, nil)

	return nil
}

// Search performs a top-1 nearest-neighbor search and resolves the winner
// to its external record ID.
func (db *Database) Search(ctx context.Context, query []float32) (Match, error) {
	best, err := db.table.Search(query)
	if err != nil {
		db.logger.LogSearch(ctx, 1, 0, err)
		return Match{}, translateError(err)
	}

	m := db.resolve(best)
	db.logger.LogSearch(ctx, 1, boolToCount(m.ExternalID != ""), nil)

	return m, nil
}

// SearchN performs a top-n nearest-neighbor search and resolves every
// match to its external record ID. Unmatched slots resolve to an empty
// Match with the mode's worst score.
func (db *Database) SearchN(ctx context.Context, query []float32, n int) ([]Match, error) {
	results, err := db.table.SearchN(query, n)
	if err != nil {
		db.logger.LogSearch(ctx, n, 0, err)
		return nil, translateError(err)
	}

	out := make([]Match, len(results))
	found := 0

	for i, r := range results {
		out[i] = db.resolve(r)
		if out[i].ExternalID != "" {
			found++
		}
	}

	db.logger.LogSearch(ctx, n, found, nil)

	return out, nil
}

func (db *Database) resolve(r table.MatchResult) Match {
	ext, _ := db.reg.ExternalID(r.ID)
	return Match{ExternalID: ext, Score: r.Score}
}

func boolToCount(b bool) int {
	if b {
		return 1
	}

	return 0
}

// Close releases the underlying table. The database must not be used
// afterwards.
func (db *Database) Close(ctx context.Context) error {
	err := db.table.Close()
	db.logger.LogClose(ctx, db.name, err)

	return err
}
