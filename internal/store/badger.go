package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
)

// BadgerConfig holds settings for the embedded Badger backend.
type BadgerConfig struct {
	// Path is the directory for the database files. Ignored when InMemory.
	Path string

	// InMemory keeps everything in RAM. Useful for tooling and tests.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
}

// BadgerStore implements Store over an embedded BadgerDB: the local
// persistence tier for offline use. One key per entity node, holding the
// node's JSON; field and child writes are read-modify-write on that key.
// Live subscriptions ride on Badger's prefix subscription.
type BadgerStore struct {
	log *slog.Logger

	mu     sync.Mutex
	db     *badger.DB
	closed bool
}

// OpenBadgerStore opens (or creates) the database at cfg.Path.
func OpenBadgerStore(cfg BadgerConfig, log *slog.Logger) (*BadgerStore, error) {
	if log == nil {
		log = slog.Default()
	}
	// Badger refuses disk-less mode with a directory set, so InMemory must
	// discard cfg.Path rather than merely flag past it.
	dir := cfg.Path
	if cfg.InMemory {
		dir = ""
	}
	opts := badger.DefaultOptions(dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(badgerSlog{log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &BadgerStore{log: log, db: db}, nil
}

// Close flushes and closes the database.
func (b *BadgerStore) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	db := b.db
	b.mu.Unlock()
	return db.Close()
}

func (b *BadgerStore) handle() *badger.DB {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	return b.db
}

// Read implements Store.
func (b *BadgerStore) Read(ctx context.Context, path string) (any, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	db := b.handle()
	if db == nil {
		return nil, ErrUnavailable
	}

	var raw []byte
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(p.NodePrefix()))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	node, err := decodeNodeBytes(raw)
	if err != nil {
		return nil, err
	}
	return walkNode(node, p)
}

// Write implements Store. The transaction runs on a background goroutine;
// ack reports its outcome.
func (b *BadgerStore) Write(ctx context.Context, path string, value any, ack AckFunc) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	db := b.handle()
	if db == nil {
		return ErrUnavailable
	}
	norm, err := Encode(value)
	if err != nil {
		return err
	}

	go func() {
		err := b.applyWrite(db, p, norm)
		if ack == nil {
			return
		}
		if err != nil {
			ack(Ack{Err: err.Error()})
			return
		}
		ack(Ack{OK: true})
	}()
	return nil
}

// applyWrite merges a write into the node key. Conflicting concurrent
// transactions are retried a few times before giving up; the reconciler's
// verify pass catches anything that slips through.
func (b *BadgerStore) applyWrite(db *badger.DB, p Path, norm any) error {
	key := []byte(p.NodePrefix())
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = db.Update(func(txn *badger.Txn) error {
			node := map[string]any(nil)
			item, err := txn.Get(key)
			if err == nil {
				raw, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				node, _ = decodeNodeBytes(raw)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			merged := mergeAtPath(node, p, norm)
			raw, err := json.Marshal(merged)
			if err != nil {
				return err
			}
			return txn.Set(key, raw)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return err
}

// mergeAtPath applies a write at node, field or child depth to a node value.
func mergeAtPath(node map[string]any, p Path, norm any) any {
	if p.Field == "" {
		// Whole-node write, tombstone included.
		return norm
	}
	if node == nil {
		node = make(map[string]any)
	}
	if p.Child == "" {
		node[p.Field] = norm
		return node
	}
	field, ok := node[p.Field].(map[string]any)
	if !ok {
		field = make(map[string]any)
		node[p.Field] = field
	}
	field[p.Child] = norm
	return node
}

func decodeNodeBytes(raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: corrupt node: %v", ErrUnavailable, err)
	}
	if v == nil {
		return nil, nil
	}
	node, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: node is not an object", ErrUnavailable)
	}
	return node, nil
}

type badgerSub struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *badgerSub) Close() {
	s.once.Do(s.cancel)
}

// SubscribeLive implements Store via Badger's prefix subscription on the
// node key.
func (b *BadgerStore) SubscribeLive(path string, fn func(any)) (Subscription, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	db := b.handle()
	if db == nil {
		return nil, ErrUnavailable
	}

	ctx, cancel := context.WithCancel(context.Background())
	match := []pb.Match{{Prefix: []byte(p.NodePrefix())}}
	go func() {
		err := db.Subscribe(ctx, func(kvs *badger.KVList) error {
			for _, kv := range kvs.Kv {
				node, err := decodeNodeBytes(kv.Value)
				if err != nil {
					continue
				}
				v, err := walkNode(node, p)
				if err != nil {
					v = nil
				}
				fn(v)
			}
			return nil
		}, match)
		if err != nil && !errors.Is(err, context.Canceled) {
			b.log.Warn("badger subscription ended",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}()
	return &badgerSub{cancel: cancel}, nil
}

// SubscribeSet implements Store.
func (b *BadgerStore) SubscribeSet(ctx context.Context, path string, fn func(childID string, value any)) error {
	v, err := b.Read(ctx, path)
	if err != nil {
		return err
	}
	members, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for childID, cv := range members {
		if cv == nil || cv == false {
			continue
		}
		fn(childID, cv)
	}
	return nil
}

// badgerSlog adapts slog to Badger's logger interface.
type badgerSlog struct {
	log *slog.Logger
}

func (l badgerSlog) Errorf(format string, args ...any)   { l.log.Error(fmt.Sprintf(format, args...)) }
func (l badgerSlog) Warningf(format string, args ...any) { l.log.Warn(fmt.Sprintf(format, args...)) }
func (l badgerSlog) Infof(format string, args ...any)    { l.log.Debug(fmt.Sprintf(format, args...)) }
func (l badgerSlog) Debugf(format string, args ...any)   { l.log.Debug(fmt.Sprintf(format, args...)) }
