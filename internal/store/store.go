package store

import (
	"context"
	"sync"

	"livestock-client/internal/platform/apierr"
	"livestock-client/internal/platform/logger"
)

// Snapshot es la vista inmutable del estado de un store.
type Snapshot[T Entity] struct {
	Items    []T
	Selected *T
	Filters  map[string]string
	Loading  bool
	Err      *apierr.Error
}

// Store mantiene el espejo local de una colección remota: los items en el
// orden que devolvió el backend, un slot "selected", y flags loading/error.
//
// El espejo es cache, no fuente de verdad: solo se muta cuando el backend
// confirma la operación (sin updates optimistas, sin reintentos). Escrituras
// concurrentes sobre la misma entidad quedan en last-write-wins.
//
// Todas las mutaciones pasan por un solo mutex, el análogo del paso único
// de reducción del original. Operaciones concurrentes comparten el flag
// loading (gana la última en asentarse).
type Store[T Entity] struct {
	name string
	gw   Gateway[T]
	log  logger.Logger

	mu       sync.Mutex
	items    []T
	selected *T
	filters  map[string]string
	loading  bool
	err      *apierr.Error
	subs     map[int]func(Snapshot[T])
	nextSub  int
}

func New[T Entity](name string, gw Gateway[T], log logger.Logger) *Store[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Store[T]{
		name:    name,
		gw:      gw,
		log:     log.With(map[string]any{"store": name}),
		filters: map[string]string{},
		subs:    map[int]func(Snapshot[T]){},
	}
}

// List reemplaza el espejo entero con la colección devuelta.
func (s *Store[T]) List(ctx context.Context, params map[string]string) ([]T, error) {
	s.begin()

	items, err := s.gw.List(ctx, params)
	if err != nil {
		return nil, s.fail("list", err)
	}

	s.mu.Lock()
	s.items = make([]T, len(items))
	copy(s.items, items)
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return items, nil
}

// GetByID trae una entidad y la deja en el slot selected.
func (s *Store[T]) GetByID(ctx context.Context, id int64) (T, error) {
	s.begin()

	item, err := s.gw.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, s.fail("get", err)
	}

	s.mu.Lock()
	sel := item
	s.selected = &sel
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return item, nil
}

// Create manda el alta y agrega al espejo la entidad confirmada
// (con el id que asignó el backend).
func (s *Store[T]) Create(ctx context.Context, in any) (T, error) {
	s.begin()

	item, err := s.gw.Create(ctx, in)
	if err != nil {
		var zero T
		return zero, s.fail("create", err)
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return item, nil
}

// Update reemplaza en el espejo la entrada cuyo id coincide con la
// respuesta. Si el id no está en el espejo, no muta nada (no inserta).
func (s *Store[T]) Update(ctx context.Context, id int64, in any) (T, error) {
	return s.replace(ctx, "update", func() (T, error) {
		return s.gw.Update(ctx, id, in)
	})
}

// Patch es Update parcial; misma regla de reconciliación.
func (s *Store[T]) Patch(ctx context.Context, id int64, in any) (T, error) {
	return s.replace(ctx, "patch", func() (T, error) {
		return s.gw.Patch(ctx, id, in)
	})
}

func (s *Store[T]) replace(_ context.Context, op string, call func() (T, error)) (T, error) {
	s.begin()

	item, err := call()
	if err != nil {
		var zero T
		return zero, s.fail(op, err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].EntityID() == item.EntityID() {
			s.items[i] = item
			break
		}
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return item, nil
}

// Delete saca del espejo la entrada con ese id, preservando el orden
// del resto.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	s.begin()

	if err := s.gw.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return nil
}

// begin marca la operación como emitida: loading on, error previo afuera.
// El clear de error es uniforme para todas las operaciones (el original lo
// hacía inconsistente entre stores; acá se estandariza).
func (s *Store[T]) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) fail(op string, err error) *apierr.Error {
	ae := apierr.From(err)

	s.mu.Lock()
	s.loading = false
	s.err = ae
	s.mu.Unlock()
	s.notify()

	s.log.Warn("operation failed", map[string]any{"op": op, "error": ae.Error()})
	return ae
}

// SetSelected fija el slot selected sin ir a la red.
func (s *Store[T]) SetSelected(item *T) {
	s.mu.Lock()
	if item == nil {
		s.selected = nil
	} else {
		sel := *item
		s.selected = &sel
	}
	s.mu.Unlock()
	s.notify()
}

// SetFilters mergea filtros de UI (estado local, no dispara fetch).
func (s *Store[T]) SetFilters(f map[string]string) {
	s.mu.Lock()
	for k, v := range f {
		s.filters[k] = v
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) ClearFilters() {
	s.mu.Lock()
	s.filters = map[string]string{}
	s.mu.Unlock()
	s.notify()
}

func (s *Store[T]) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
	s.notify()
}

// Snapshot devuelve una copia del estado actual.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(s.items))
	copy(items, s.items)

	var sel *T
	if s.selected != nil {
		v := *s.selected
		sel = &v
	}

	filters := make(map[string]string, len(s.filters))
	for k, v := range s.filters {
		filters[k] = v
	}

	return Snapshot[T]{
		Items:    items,
		Selected: sel,
		Filters:  filters,
		Loading:  s.loading,
		Err:      s.err,
	}
}

// Subscribe registra un callback que recibe cada snapshot nuevo.
// Devuelve la función para desuscribirse. Un subscriber que llega después
// de desmontarse una vista simplemente deja de escuchar: el store absorbe
// los settles tardíos sin problema.
func (s *Store[T]) Subscribe(fn func(Snapshot[T])) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store[T]) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
