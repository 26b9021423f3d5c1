package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forgeboard/gamegraph/internal/model"
	"github.com/forgeboard/gamegraph/pkg/ids"
)

// UserService maintains user profile nodes and the role lookup.
type UserService struct {
	deps Deps
}

// NewUserService creates a user service.
func NewUserService(deps Deps) *UserService {
	return &UserService{deps: deps}
}

// Get resolves a user, cache-first.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, bool) {
	return fetch[model.User](ctx, s.deps, model.KindUser, id)
}

// Ensure returns the user with the given id, creating the profile node when
// absent. New users start as guests.
func (s *UserService) Ensure(ctx context.Context, id, name string) *model.User {
	if !ids.Valid(id) {
		return nil
	}
	if u, ok := s.Get(ctx, id); ok {
		return u
	}
	now := time.Now().UTC()
	u := &model.User{
		ID:        id,
		Name:      name,
		Role:      model.RoleGuest,
		CreatedOn: now,
		UpdatedOn: now,
	}
	s.deps.putNode(ctx, model.KindUser, id, u)
	s.deps.logger().Info("user created",
		slog.String("user_id", id))
	return u
}

// SetRole changes a user's role. Returns false for unknown users or invalid
// roles.
func (s *UserService) SetRole(ctx context.Context, id string, role model.Role) bool {
	if !role.IsValid() {
		return false
	}
	u, ok := s.Get(ctx, id)
	if !ok {
		return false
	}
	updated := *u
	updated.Role = role
	updated.UpdatedOn = time.Now().UTC()
	s.deps.Cache.Put(model.KindUser, id, &updated)
	s.deps.Cache.SetRole(id, role)
	s.deps.putField(ctx, model.KindUser, id, "role", string(role))
	s.deps.putField(ctx, model.KindUser, id, "updated_on", updated.UpdatedOn)
	return true
}

// Role returns the cached role for a user, Guest when unknown.
func (s *UserService) Role(userID string) model.Role {
	return s.deps.Cache.Role(userID)
}
