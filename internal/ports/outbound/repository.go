// Package outbound defines the interfaces the planner core depends on but
// does not implement: the dish catalog, the MIP/LP solver, and an optional
// cache in front of the catalog. Concrete adapters live under
// internal/infrastructure/persistence and internal/infrastructure/solver.
package outbound

import (
	"context"

	"github.com/alchemorsel/mealplanner/internal/domain/dish"
	"github.com/alchemorsel/mealplanner/internal/domain/shared"
)

// DishRepository is the read-only collaborator spec.md §6 describes:
// the core consumes it but never defines or owns its storage.
type DishRepository interface {
	// FindAll returns dishes matching the optional filters, paginated.
	// A nil category or meal type means "any".
	FindAll(ctx context.Context, category *dish.Category, mealType *dish.MealType, skip, limit int) ([]dish.Dish, error)
	// FindByIDs returns the dishes matching the given ids, in no
	// particular order; ids with no match are simply omitted.
	FindByIDs(ctx context.Context, ids []int) ([]dish.Dish, error)
	// FindExcludingAllergens returns every dish that contains none of the
	// given allergen labels.
	FindExcludingAllergens(ctx context.Context, excluded []dish.Allergen) ([]dish.Dish, error)
}

// CacheRepository is a generic byte-oriented cache (spec.md §4.10 domain
// stack wiring). The container provides one, but no code in this module
// reads or writes it: planner.Service queries DishRepository directly on
// every call.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher is the outbound port for domain events, used the way the
// teacher's application services publish through outbound.MessageBus —
// here narrowed to a single Publish call since the planner never
// subscribes to anything.
type EventPublisher interface {
	Publish(ctx context.Context, event shared.DomainEvent) error
}
