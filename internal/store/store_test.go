package store_test

import (
	"context"
	"errors"
	"testing"

	"livestock-client/internal/platform/httpclient"
	"livestock-client/internal/store"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (i item) EntityID() int64 { return i.ID }

type fakeGateway struct {
	listFn   func(ctx context.Context, filters map[string]string) ([]item, error)
	getFn    func(ctx context.Context, id int64) (item, error)
	createFn func(ctx context.Context, in any) (item, error)
	updateFn func(ctx context.Context, id int64, in any) (item, error)
	deleteFn func(ctx context.Context, id int64) error
}

var _ store.Gateway[item] = (*fakeGateway)(nil)

func (f *fakeGateway) List(ctx context.Context, filters map[string]string) ([]item, error) {
	return f.listFn(ctx, filters)
}

func (f *fakeGateway) Get(ctx context.Context, id int64) (item, error) {
	return f.getFn(ctx, id)
}

func (f *fakeGateway) Create(ctx context.Context, in any) (item, error) {
	return f.createFn(ctx, in)
}

func (f *fakeGateway) Update(ctx context.Context, id int64, in any) (item, error) {
	return f.updateFn(ctx, id, in)
}

func (f *fakeGateway) Patch(ctx context.Context, id int64, in any) (item, error) {
	return f.updateFn(ctx, id, in)
}

func (f *fakeGateway) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

func seeded(t *testing.T, items ...item) (*store.Store[item], *fakeGateway) {
	t.Helper()

	gw := &fakeGateway{
		listFn: func(context.Context, map[string]string) ([]item, error) {
			return items, nil
		},
	}
	s := store.New[item]("test", gw, nil)
	if _, err := s.List(context.Background(), nil); err != nil {
		t.Fatalf("seed list: %v", err)
	}
	return s, gw
}

func TestList_ReplacesWholesale(t *testing.T) {
	s, gw := seeded(t, item{ID: 1, Name: "a"}, item{ID: 2, Name: "b"})

	gw.listFn = func(context.Context, map[string]string) ([]item, error) {
		return []item{{ID: 9, Name: "z"}}, nil
	}
	if _, err := s.List(context.Background(), nil); err != nil {
		t.Fatalf("list: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != 9 {
		t.Fatalf("expected wholesale replacement, got %+v", snap.Items)
	}
}

func TestCreate_AppendsConfirmedEntity(t *testing.T) {
	s, gw := seeded(t, item{ID: 1, Name: "a"})

	gw.createFn = func(_ context.Context, in any) (item, error) {
		// id lo asigna "el backend"
		return item{ID: 42, Name: "nuevo"}, nil
	}

	before := len(s.Snapshot().Items)
	created, err := s.Create(context.Background(), map[string]string{"name": "nuevo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != before+1 {
		t.Fatalf("expected len %d, got %d", before+1, len(snap.Items))
	}
	last := snap.Items[len(snap.Items)-1]
	if last.ID != created.ID || last.ID != 42 {
		t.Fatalf("expected appended entity with server id 42, got %+v", last)
	}
}

func TestUpdate_ReplacesMatchingEntry(t *testing.T) {
	s, gw := seeded(t, item{ID: 1, Name: "a"}, item{ID: 2, Name: "b"})

	gw.updateFn = func(_ context.Context, id int64, _ any) (item, error) {
		return item{ID: id, Name: "updated"}, nil
	}

	if _, err := s.Update(context.Background(), 2, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	snap := s.Snapshot()
	if snap.Items[1] != (item{ID: 2, Name: "updated"}) {
		t.Fatalf("expected replaced entry, got %+v", snap.Items[1])
	}
	if snap.Items[0] != (item{ID: 1, Name: "a"}) {
		t.Fatalf("unrelated entry mutated: %+v", snap.Items[0])
	}
}

func TestUpdate_AbsentIDIsNoOp(t *testing.T) {
	s, gw := seeded(t, item{ID: 1, Name: "a"})

	gw.updateFn = func(_ context.Context, id int64, _ any) (item, error) {
		return item{ID: 99, Name: "ghost"}, nil
	}

	if _, err := s.Update(context.Background(), 99, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != 1 {
		t.Fatalf("expected no mutation nor insertion, got %+v", snap.Items)
	}
}

func TestDelete_RemovesOnlyTarget(t *testing.T) {
	s, gw := seeded(t, item{ID: 1}, item{ID: 2}, item{ID: 3})

	gw.deleteFn = func(context.Context, int64) error { return nil }

	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(snap.Items))
	}
	// Sin reordenar más allá de la remoción.
	if snap.Items[0].ID != 1 || snap.Items[1].ID != 3 {
		t.Fatalf("survivor order changed: %+v", snap.Items)
	}
}

func TestGetByID_SetsSelected(t *testing.T) {
	s, gw := seeded(t)

	gw.getFn = func(_ context.Context, id int64) (item, error) {
		return item{ID: id, Name: "found"}, nil
	}

	if _, err := s.GetByID(context.Background(), 7); err != nil {
		t.Fatalf("get: %v", err)
	}

	snap := s.Snapshot()
	if snap.Selected == nil || snap.Selected.ID != 7 {
		t.Fatalf("expected selected id 7, got %+v", snap.Selected)
	}
}

func TestLoading_TogglesOncePerOperation(t *testing.T) {
	for name, wantErr := range map[string]bool{"success": false, "failure": true} {
		t.Run(name, func(t *testing.T) {
			gw := &fakeGateway{
				listFn: func(context.Context, map[string]string) ([]item, error) {
					if wantErr {
						return nil, &httpclient.HTTPError{StatusCode: 500}
					}
					return []item{}, nil
				},
			}
			s := store.New[item]("test", gw, nil)

			var transitions []bool
			unsub := s.Subscribe(func(snap store.Snapshot[item]) {
				if len(transitions) == 0 || transitions[len(transitions)-1] != snap.Loading {
					transitions = append(transitions, snap.Loading)
				}
			})
			defer unsub()

			_, err := s.List(context.Background(), nil)
			if wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Exactamente un true -> false, sea cual sea el resultado.
			want := []bool{true, false}
			if len(transitions) != len(want) {
				t.Fatalf("expected transitions %v, got %v", want, transitions)
			}
			for i := range want {
				if transitions[i] != want[i] {
					t.Fatalf("expected transitions %v, got %v", want, transitions)
				}
			}
		})
	}
}

func TestFailure_KeepsMirrorAndSetsError(t *testing.T) {
	s, gw := seeded(t, item{ID: 1}, item{ID: 2})

	gw.deleteFn = func(context.Context, int64) error {
		return &httpclient.HTTPError{StatusCode: 500, Body: `{"detail":"boom"}`}
	}

	if err := s.Delete(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("mirror mutated on failure: %+v", snap.Items)
	}
	if snap.Err == nil || !snap.Err.IsServer() {
		t.Fatalf("expected server error in state, got %+v", snap.Err)
	}
}

func TestNextOperationClearsPreviousError(t *testing.T) {
	s, gw := seeded(t, item{ID: 1})

	gw.listFn = func(context.Context, map[string]string) ([]item, error) {
		return nil, errors.New("network down")
	}
	if _, err := s.List(context.Background(), nil); err == nil {
		t.Fatalf("expected error")
	}
	if s.Snapshot().Err == nil {
		t.Fatalf("expected recorded error")
	}

	gw.listFn = func(context.Context, map[string]string) ([]item, error) {
		return []item{{ID: 1}}, nil
	}
	if _, err := s.List(context.Background(), nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if s.Snapshot().Err != nil {
		t.Fatalf("error not cleared on next operation")
	}
}

func TestClearError(t *testing.T) {
	s, gw := seeded(t, item{ID: 1})

	gw.listFn = func(context.Context, map[string]string) ([]item, error) {
		return nil, errors.New("boom")
	}
	_, _ = s.List(context.Background(), nil)

	s.ClearError()
	if s.Snapshot().Err != nil {
		t.Fatalf("expected cleared error")
	}
}
