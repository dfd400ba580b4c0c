package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
)

// PaperRepository implements storage.PaperRepository for BadgerDB.
type PaperRepository struct {
	backend *Backend
}

var _ storage.PaperRepository = (*PaperRepository)(nil)

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(backend *Backend) *PaperRepository {
	return &PaperRepository{backend: backend}
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *PaperRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PaperRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertPapers inserts or replaces paper records, keyed by content ID.
func (r *PaperRepository) UpsertPapers(ctx context.Context, records ...*core.PaperRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			if err := core.ValidatePaperRecord(record); err != nil {
				return err
			}

			key := makePaperKey(record.Id)
			old, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}

			if old != nil {
				record.InsertedAt = old.InsertedAt
				// Re-ingesting the same paper with changed metadata must
				// not leave stale index entries behind.
				if err := r.deleteIndexes(tx, old); err != nil {
					return err
				}
			} else {
				record.InsertedAt = now
			}
			record.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalPaperRecord(record)); err != nil {
				return err
			}
			if err := r.writeIndexes(tx, record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeletePapers removes paper records and their index entries by ID.
func (r *PaperRepository) DeletePapers(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePaperKey(id)
			record, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}
			if err := r.deleteIndexes(tx, record); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPaper retrieves a single paper record by ID.
func (r *PaperRepository) GetPaper(ctx context.Context, id core.ID) (*core.PaperRecord, error) {
	var record *core.PaperRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		record, err = r.readPaper(tx, makePaperKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, storage.ErrNotFound
	}
	return record, nil
}

// GetPapers retrieves multiple paper records by their IDs.
// Missing records are silently skipped.
func (r *PaperRepository) GetPapers(ctx context.Context, ids ...core.ID) ([]*core.PaperRecord, error) {
	records := make([]*core.PaperRecord, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := r.readPaper(tx, makePaperKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetPapersByVenueYear retrieves the IDs of all papers published at a venue
// in a year.
func (r *PaperRepository) GetPapersByVenueYear(ctx context.Context, venue string, year int) ([]core.ID, error) {
	return r.scanIndex(makePartialVenueYearKey(venue, year))
}

// GetPapersByKeyword retrieves the IDs of all papers carrying a keyword.
func (r *PaperRepository) GetPapersByKeyword(ctx context.Context, keyword string) ([]core.ID, error) {
	return r.scanIndex(makePartialKeywordKey(keyword))
}

// ListPaperIDs returns the IDs of all stored papers. Keys are BigEndian,
// so the scan yields ascending IDs.
func (r *PaperRepository) ListPaperIDs(ctx context.Context) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paperRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		prefixLen := len(paperRecordPrefix) + 1
		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) != prefixLen+8 {
				continue
			}
			ids = append(ids, core.ID(binary.BigEndian.Uint64(key[prefixLen:])))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountPapers returns the total number of stored paper records.
func (r *PaperRepository) CountPapers(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(paperRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PaperRepository) readPaper(tx *badger.Txn, key []byte) (*core.PaperRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var record *core.PaperRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalPaperRecord(val)
		return err
	})
	return record, err
}

func (r *PaperRepository) writeIndexes(tx *badger.Txn, record *core.PaperRecord) error {
	idValue := storage.MarshalID(record.Id)
	if err := tx.Set(makeVenueYearKey(record.Venue, record.Year, record.Id), idValue); err != nil {
		return err
	}
	for _, keyword := range record.Keywords {
		if err := tx.Set(makeKeywordKey(keyword, record.Id), idValue); err != nil {
			return err
		}
	}
	return nil
}

func (r *PaperRepository) deleteIndexes(tx *badger.Txn, record *core.PaperRecord) error {
	if err := tx.Delete(makeVenueYearKey(record.Venue, record.Year, record.Id)); err != nil {
		return err
	}
	for _, keyword := range record.Keywords {
		if err := tx.Delete(makeKeywordKey(keyword, record.Id)); err != nil {
			return err
		}
	}
	return nil
}

func (r *PaperRepository) scanIndex(prefix []byte) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
