package store

import "context"

// Entity es cualquier record con id asignado por el backend.
type Entity interface {
	EntityID() int64
}

// Gateway mapea las operaciones de dominio a llamadas HTTP concretas.
// Una implementación por recurso (animals, owners, events, inventory, reports).
type Gateway[T Entity] interface {
	List(ctx context.Context, filters map[string]string) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in any) (T, error)
	Update(ctx context.Context, id int64, in any) (T, error)
	Patch(ctx context.Context, id int64, in any) (T, error)
	Delete(ctx context.Context, id int64) error
}
