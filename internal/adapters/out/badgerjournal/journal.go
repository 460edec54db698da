// Package badgerjournal keeps clone saga runs in an embedded badger store so a
// split interrupted by a crash resumes where it stopped.
package badgerjournal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/dgraph-io/badger/v4"
)

var _ ports.SagaJournal = (*Journal)(nil)

const keyPrefix = "clone_run:"

type Journal struct {
	db  *badger.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens (or creates) the journal directory at path. An empty path keeps
// the journal in memory.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open saga journal %q: %w", path, err)
	}
	return db, nil
}

// NewJournal stores runs in db. Runs older than ttl expire on their own; a
// zero ttl keeps them until deleted.
func NewJournal(db *badger.DB, ttl time.Duration) (*Journal, error) {
	if db == nil {
		return nil, errs.NewValueIsRequiredError("db")
	}
	return &Journal{db: db, ttl: ttl, now: time.Now}, nil
}

func runKey(orderID, vendorID string) []byte {
	return []byte(keyPrefix + orderID + ":" + vendorID)
}

func (j *Journal) Load(ctx context.Context, orderID, vendorID string) (ports.CloneRun, error) {
	if err := ctx.Err(); err != nil {
		return ports.CloneRun{}, err
	}

	var run ports.CloneRun
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(orderID, vendorID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ports.CloneRun{}, errs.NewObjectNotFoundError("clone_run", orderID+":"+vendorID)
	}
	if err != nil {
		return ports.CloneRun{}, fmt.Errorf("load clone run %s/%s: %w", orderID, vendorID, err)
	}
	return run, nil
}

func (j *Journal) Save(ctx context.Context, run ports.CloneRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if run.OrderID == "" || run.VendorID == "" {
		return errs.NewValueIsRequiredError("clone_run key")
	}

	run.UpdatedAt = j.now().UTC()
	val, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode clone run %s: %w", run.RunID, err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(runKey(run.OrderID, run.VendorID), val)
		if j.ttl > 0 {
			entry = entry.WithTTL(j.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("save clone run %s: %w", run.RunID, err)
	}
	return nil
}

// Delete is a no-op for a run that does not exist.
func (j *Journal) Delete(ctx context.Context, orderID, vendorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(runKey(orderID, vendorID))
	})
	if err != nil {
		return fmt.Errorf("delete clone run %s/%s: %w", orderID, vendorID, err)
	}
	return nil
}

// Pending lists every open run, oldest update first.
func (j *Journal) Pending(ctx context.Context) ([]ports.CloneRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var runs []ports.CloneRun
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var run ports.CloneRun
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list clone runs: %w", err)
	}

	sort.SliceStable(runs, func(a, b int) bool {
		return runs[a].UpdatedAt.Before(runs[b].UpdatedAt)
	})
	return runs, nil
}
