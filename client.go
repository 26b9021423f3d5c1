// Package gamegraph is the client-side synchronization layer for a
// peer-replicated game graph. It wraps an eventually-consistent key/value
// graph store with an optimistic local cache, a write-then-verify reconciler,
// bidirectional relationship maintenance, entity mutators, multi-hop
// aggregation, and nested live subscriptions.
//
// The embedding application constructs one Client per store connection and
// reads and mutates the graph exclusively through it. Mutators return before
// the store converges: the local cache reflects every mutation immediately,
// and the reconciler repairs writes the replication layer loses.
package gamegraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/forgeboard/gamegraph/internal/cache"
	"github.com/forgeboard/gamegraph/internal/config"
	"github.com/forgeboard/gamegraph/internal/reconcile"
	"github.com/forgeboard/gamegraph/internal/relation"
	"github.com/forgeboard/gamegraph/internal/service"
	"github.com/forgeboard/gamegraph/internal/store"
	"github.com/forgeboard/gamegraph/internal/subscribe"
)

// Client bundles every layer of the graph sync stack over one store.
type Client struct {
	Cache      *cache.Cache
	Users      *service.UserService
	Games      *service.GameService
	Actors     *service.ActorService
	Cards      *service.CardService
	Decks      *service.DeckService
	Agreements *service.AgreementService
	Context    *service.ContextService
	Subscribe  *subscribe.Manager

	id         string
	store      store.Store
	rec        *reconcile.Reconciler
	log        *slog.Logger
	closeStore func() error
}

// New wires a client over an already constructed store. The store's lifetime
// stays with the caller; Close stops this client's background work only.
// logger may be nil for slog.Default.
func New(cfg *config.Config, st store.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	// Several clients may share one process (tests, multi-profile tools);
	// the instance id keeps their log lines apart.
	clientID := uuid.NewString()
	logger = logger.With(slog.String("client_id", clientID))
	c := cache.New()
	rec := reconcile.New(st, reconcile.Options{
		AckTimeout:  cfg.Reconcile.AckTimeout,
		VerifyDelay: cfg.Reconcile.VerifyDelay,
	}, logger)
	deps := service.Deps{
		Cache:          c,
		Store:          st,
		Rec:            rec,
		Rel:            relation.NewManager(rec, logger),
		Log:            logger,
		ReadRetryDelay: cfg.Reconcile.ReadRetryDelay,
	}
	return &Client{
		Cache:      c,
		Users:      service.NewUserService(deps),
		Games:      service.NewGameService(deps),
		Actors:     service.NewActorService(deps),
		Cards:      service.NewCardService(deps),
		Decks:      service.NewDeckService(deps),
		Agreements: service.NewAgreementService(deps),
		Context:    service.NewContextService(deps),
		Subscribe:  subscribe.NewManager(st, c, logger),
		id:         clientID,
		store:      st,
		rec:        rec,
		log:        logger,
	}
}

// Open builds the store backend named by cfg and wires a client over it.
// Close then also closes the store.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var st store.Store
	var closeStore func() error
	switch cfg.Store.Backend {
	case config.BackendMemory:
		st = store.NewMemoryStore()
	case config.BackendBadger:
		b, err := store.OpenBadgerStore(store.BadgerConfig{
			Path:       cfg.Badger.Path,
			InMemory:   cfg.Badger.InMemory,
			SyncWrites: cfg.Badger.SyncWrites,
		}, logger)
		if err != nil {
			return nil, err
		}
		st, closeStore = b, b.Close
	case config.BackendSurreal:
		s := store.NewSurrealStore(store.SurrealConfig{
			Endpoint:  cfg.Surreal.URL(),
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
			User:      cfg.Surreal.User,
			Password:  cfg.Surreal.Password,
		}, logger)
		if err := s.Connect(ctx); err != nil {
			return nil, err
		}
		st, closeStore = s, s.Close
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	client := New(cfg, st, logger)
	client.closeStore = closeStore
	return client, nil
}

// ID returns this client's process-unique instance id, the one its log
// lines carry.
func (c *Client) ID() string {
	return c.id
}

// Store exposes the underlying store, mainly for opening raw subscriptions
// or seeding test data.
func (c *Client) Store() store.Store {
	return c.store
}

// Close stops the reconciler's background verification tasks and, when the
// client owns the store (Open), closes the store too. In-flight mutator
// results remain valid; only convergence repair stops.
func (c *Client) Close() error {
	c.rec.Close()
	if c.closeStore != nil {
		return c.closeStore()
	}
	return nil
}
