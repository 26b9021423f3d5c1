package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// SurrealConfig holds SurrealDB connection settings.
type SurrealConfig struct {
	// Endpoint is the full connection URL, e.g. "ws://localhost:8000".
	Endpoint  string
	Namespace string
	Database  string
	User      string
	Password  string
}

// SurrealStore implements Store over SurrealDB. Each entity node is one
// record (<collection>:<id>); field and child paths become MERGE patches on
// that record so sibling keys survive. Live subscriptions are backed by one
// LIVE query per collection, demultiplexed to per-path subscribers.
type SurrealStore struct {
	config SurrealConfig
	log    *slog.Logger

	mu     sync.Mutex
	db     *surrealdb.DB
	feeds  map[string]*liveFeed // collection -> feed
	closed bool
}

// NewSurrealStore creates a disconnected SurrealStore. Call Connect before
// use. A nil logger falls back to slog.Default().
func NewSurrealStore(cfg SurrealConfig, log *slog.Logger) *SurrealStore {
	if log == nil {
		log = slog.Default()
	}
	return &SurrealStore{
		config: cfg,
		log:    log,
		feeds:  make(map[string]*liveFeed),
	}
}

// Connect establishes the connection and selects namespace/database.
func (s *SurrealStore) Connect(ctx context.Context) error {
	db, err := surrealdb.FromEndpointURLString(ctx, s.config.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrUnavailable, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	return nil
}

// Close kills live feeds and drops the connection.
func (s *SurrealStore) Close() error {
	s.mu.Lock()
	s.closed = true
	db := s.db
	feeds := s.feeds
	s.feeds = make(map[string]*liveFeed)
	s.mu.Unlock()

	for _, f := range feeds {
		f.stop()
	}
	if db != nil {
		return db.Close(context.Background())
	}
	return nil
}

// Ping verifies the connection.
func (s *SurrealStore) Ping(ctx context.Context) error {
	db := s.handle()
	if db == nil {
		return ErrUnavailable
	}
	if _, err := db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SurrealStore) handle() *surrealdb.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.db
}

// Read implements Store.
func (s *SurrealStore) Read(ctx context.Context, path string) (any, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	db := s.handle()
	if db == nil {
		return nil, ErrUnavailable
	}

	results, err := surrealdb.Query[any](ctx, db,
		"SELECT * FROM type::thing($tb, $id)",
		map[string]any{"tb": p.Collection, "id": p.ID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	record, err := firstRecord(results)
	if err != nil {
		return nil, err
	}
	node, err := normalizeRecord(record)
	if err != nil {
		return nil, err
	}
	return walkNode(node, p)
}

// Write implements Store. Submission happens on a background goroutine; the
// ack callback receives the query outcome.
func (s *SurrealStore) Write(ctx context.Context, path string, value any, ack AckFunc) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	db := s.handle()
	if db == nil {
		return ErrUnavailable
	}
	norm, err := Encode(value)
	if err != nil {
		return err
	}

	query, vars := writeQuery(p, norm)
	go func() {
		_, err := surrealdb.Query[any](ctx, db, query, vars)
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

// writeQuery builds the statement for a write at the given depth.
func writeQuery(p Path, norm any) (string, map[string]any) {
	vars := map[string]any{"tb": p.Collection, "id": p.ID}
	switch {
	case p.Field == "":
		if norm == nil {
			// Tombstone the whole node.
			return "DELETE type::thing($tb, $id)", vars
		}
		vars["content"] = norm
		return "UPSERT type::thing($tb, $id) CONTENT $content", vars
	case p.Child == "":
		vars["patch"] = map[string]any{p.Field: norm}
		return "UPSERT type::thing($tb, $id) MERGE $patch", vars
	default:
		// Child-level write: a nested patch touches only this member key.
		vars["patch"] = map[string]any{p.Field: map[string]any{p.Child: norm}}
		return "UPSERT type::thing($tb, $id) MERGE $patch", vars
	}
}

// SubscribeLive implements Store.
func (s *SurrealStore) SubscribeLive(path string, fn func(any)) (Subscription, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.db == nil {
		return nil, ErrUnavailable
	}
	feed, ok := s.feeds[p.Collection]
	if !ok {
		feed, err = s.newLiveFeed(p.Collection)
		if err != nil {
			return nil, err
		}
		s.feeds[p.Collection] = feed
	}
	return feed.add(p, fn), nil
}

// SubscribeSet implements Store.
func (s *SurrealStore) SubscribeSet(ctx context.Context, path string, fn func(childID string, value any)) error {
	v, err := s.Read(ctx, path)
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

// liveFeed owns one LIVE query on a collection and fans notifications out to
// path subscribers. Called with s.mu held.
func (s *SurrealStore) newLiveFeed(collection string) (*liveFeed, error) {
	liveID, err := surrealdb.Live(context.Background(), s.db, models.Table(collection), false)
	if err != nil {
		return nil, fmt.Errorf("%w: live query failed: %v", ErrUnavailable, err)
	}
	ch, err := s.db.LiveNotifications(liveID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: live notifications failed: %v", ErrUnavailable, err)
	}

	feed := &liveFeed{
		store:  s,
		liveID: liveID.String(),
		subs:   make(map[int]*surrealSub),
	}
	go feed.run(ch)
	return feed, nil
}

type liveFeed struct {
	store  *SurrealStore
	liveID string

	mu      sync.Mutex
	subs    map[int]*surrealSub
	nextSub int
	stopped bool
}

type surrealSub struct {
	feed *liveFeed
	id   int
	path Path
	fn   func(any)
	once sync.Once
}

func (s *surrealSub) Close() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		s.feed.mu.Unlock()
	})
}

func (f *liveFeed) add(p Path, fn func(any)) *surrealSub {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSub++
	sub := &surrealSub{feed: f, id: f.nextSub, path: p, fn: fn}
	f.subs[sub.id] = sub
	return sub
}

func (f *liveFeed) stop() {
	f.mu.Lock()
	f.stopped = true
	f.subs = make(map[int]*surrealSub)
	f.mu.Unlock()
	if db := f.store.handle(); db != nil {
		if err := surrealdb.Kill(context.Background(), db, f.liveID); err != nil {
			f.store.log.Warn("failed to kill live query",
				slog.String("live_id", f.liveID),
				slog.String("error", err.Error()))
		}
	}
}

func (f *liveFeed) run(ch <-chan connection.Notification) {
	for notif := range ch {
		record, err := normalizeRecord(notif.Result)
		if err != nil {
			f.store.log.Warn("undecodable live notification",
				slog.String("error", err.Error()))
			continue
		}
		nodeID := recordID(record)
		if notif.Action == connection.DeleteAction {
			record = nil
		}

		f.mu.Lock()
		targets := make([]*surrealSub, 0, len(f.subs))
		for _, sub := range f.subs {
			if sub.path.ID == nodeID {
				targets = append(targets, sub)
			}
		}
		f.mu.Unlock()

		for _, sub := range targets {
			v, err := walkNode(record, sub.path)
			if err != nil {
				v = nil
			}
			sub.fn(v)
		}
	}
}

// firstRecord unwraps the first record of the first statement result, in the
// same shape Query returns it.
func firstRecord(results *[]surrealdb.QueryResult[any]) (any, error) {
	if results == nil || len(*results) == 0 {
		return nil, ErrNotFound
	}
	r := (*results)[0]
	if r.Status != "OK" {
		if r.Error != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, r.Error.Message)
		}
		return nil, ErrUnavailable
	}
	if rows, ok := r.Result.([]any); ok {
		if len(rows) == 0 {
			return nil, ErrNotFound
		}
		return rows[0], nil
	}
	if r.Result == nil {
		return nil, ErrNotFound
	}
	return r.Result, nil
}

// normalizeRecord converts a driver record into the store's wire shape and
// flattens the SurrealDB record id into a plain string.
func normalizeRecord(record any) (map[string]any, error) {
	if record == nil {
		return nil, ErrNotFound
	}
	if m, ok := record.(map[string]any); ok {
		if id, exists := m["id"]; exists {
			m["id"] = flattenRecordID(id)
		}
	}
	norm, err := Encode(record)
	if err != nil {
		return nil, err
	}
	node, ok := norm.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: record is not an object", ErrUnavailable)
	}
	return node, nil
}

// flattenRecordID reduces the driver's record id shapes to the bare id
// string, without the collection prefix.
func flattenRecordID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%v", v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%v", v.ID)
		}
		return ""
	case map[string]any:
		if inner, ok := v["id"]; ok {
			return flattenRecordID(inner)
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func recordID(node map[string]any) string {
	if node == nil {
		return ""
	}
	if id, ok := node["id"].(string); ok {
		return id
	}
	return ""
}

// walkNode descends from a full node to the field/child depth of p.
func walkNode(node map[string]any, p Path) (any, error) {
	if node == nil {
		return nil, ErrNotFound
	}
	if p.Field == "" {
		return node, nil
	}
	fv, ok := node[p.Field]
	if !ok || fv == nil {
		return nil, ErrNotFound
	}
	if p.Child == "" {
		return fv, nil
	}
	fm, ok := fv.(map[string]any)
	if !ok {
		return nil, ErrNotFound
	}
	cv, ok := fm[p.Child]
	if !ok || cv == nil {
		return nil, ErrNotFound
	}
	return cv, nil
}
