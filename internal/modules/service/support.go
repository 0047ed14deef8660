package service

import (
	"context"

	"go.uber.org/zap"
)

// Cache is the read cache used by services. Entries are grouped by tag and
// dropped on writes. Implementations must treat failures as misses.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, tags ...string) error
	Invalidate(ctx context.Context, tags ...string) error
}

// EventPublisher delivers domain events; nil disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

const (
	EventProjectCreated = "project.created"
	EventProjectDeleted = "project.deleted"
	EventSessionLogged  = "session.logged"
)

type ProjectEvent struct {
	ProjectID string `json:"projectId"`
	UserID    string `json:"userId"`
	Name      string `json:"name,omitempty"`
}

type SessionEvent struct {
	ProjectID       string  `json:"projectId"`
	UserID          string  `json:"userId"`
	Date            string  `json:"date"`
	ExposureSeconds float64 `json:"exposureSeconds"`
}

// support bundles the best-effort collaborators shared by services.
type support struct {
	cache  Cache
	events EventPublisher
	log    *zap.Logger
}

func (s support) cached(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.GetJSON(ctx, key, out)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s support) store(ctx context.Context, key string, v any, tags ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, v, tags...); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s support) invalidate(ctx context.Context, tags ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tags...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Strings("tags", tags), zap.Error(err))
	}
}

func (s support) publish(ctx context.Context, routingKey string, body any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, routingKey, body); err != nil {
		s.log.Error("publish event failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}
