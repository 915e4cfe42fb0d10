package kvio

import (
	"errors"
	"log/slog"

	"github.com/attilauslu/oligocraft/internal/ent/kv"
	"github.com/dgraph-io/badger/v2"
	"github.com/gnames/gnsys"
)

var errClosed = errors.New("key-value store is not open")

type kvio struct {
	dir string
	kv  *badger.DB
}

// New returns a new instance of kvio. Existing data in dir are kept.
func New(dir string) (kv.KeyVal, error) {
	res := kvio{
		dir: dir,
	}

	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create directory", "error", err, "dir", dir)
		return nil, err
	}

	return &res, nil
}

// Open opens a key-value store.
func (k *kvio) Open() error {
	if k.kv != nil {
		slog.Warn("key-value store is not nil")
		return nil
	}
	options := badger.DefaultOptions(k.dir)
	options.Logger = nil

	bdb, err := badger.Open(options)
	if err != nil {
		return err
	}
	k.kv = bdb
	return nil
}

// Close closes a key-value store.
func (k *kvio) Close() error {
	if k.kv == nil {
		slog.Warn("key-value store is nil")
		return nil
	}
	err := k.kv.Close()
	k.kv = nil
	return err
}

// GetValue returns a value for a given key.
func (k *kvio) GetValue(key []byte) ([]byte, error) {
	if k.kv == nil {
		return nil, errClosed
	}
	txn := k.kv.NewTransaction(false)
	defer txn.Discard()
	val, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var res []byte
	return val.ValueCopy(res)
}

// SetValues saves records. A transaction that grows too big is committed
// and a new one is started.
func (k *kvio) SetValues(rs ...kv.Record) error {
	if k.kv == nil {
		return errClosed
	}
	txn := k.kv.NewTransaction(true)
	for _, r := range rs {
		err := txn.Set(r.Key, r.Value)
		if err == badger.ErrTxnTooBig {
			if err = txn.Commit(); err != nil {
				return err
			}
			txn = k.kv.NewTransaction(true)
			err = txn.Set(r.Key, r.Value)
		}
		if err != nil {
			txn.Discard()
			return err
		}
	}
	return txn.Commit()
}

// Scan returns records with a key prefix.
func (k *kvio) Scan(prefix []byte) ([]kv.Record, error) {
	if k.kv == nil {
		return nil, errClosed
	}
	var res []kv.Record
	err := k.kv.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			res = append(res, kv.Record{Key: item.KeyCopy(nil), Value: val})
		}
		return nil
	})
	return res, err
}
