package app_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"livestock-client/internal/adapters/storage/memory"
	"livestock-client/internal/app"
	"livestock-client/internal/config"
	"livestock-client/internal/domain/animals"
	"livestock-client/internal/domain/inventory"
	"livestock-client/internal/platform/logger"
	"livestock-client/internal/session"
	"livestock-client/internal/stubapi"
)

// newApp levanta el stub del backend y arma la App completa contra él.
func newApp(t *testing.T) *app.App {
	t.Helper()

	stub := stubapi.NewServer(stubapi.Options{Seed: true})
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	a, err := app.New(config.Config{
		APIURL:         srv.URL,
		TimeoutSeconds: 5,
	}, app.Options{
		Creds: memory.NewCredentials(),
		Log:   logger.Nop(),
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func login(t *testing.T, a *app.App) {
	t.Helper()
	if _, err := a.Session.Login(context.Background(), session.Credentials{
		Username: "admin", Password: "password123",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	a := newApp(t)

	_, err := a.Animals.List(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected auth error without login")
	}
	if snap := a.Animals.Snapshot(); snap.Err == nil || !snap.Err.IsAuth() {
		t.Fatalf("expected recorded auth error, got %+v", snap.Err)
	}
}

func TestFullFlow_LoginCRUDDashboard(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()

	login(t, a)
	if !a.Session.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}

	// seed: 2 animales
	items, err := a.Animals.List(ctx, nil)
	if err != nil {
		t.Fatalf("list animals: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("seeded animals = %d", len(items))
	}

	// alta: el espejo incorpora la entidad confirmada con id del backend
	created, err := a.Animals.Create(ctx, animals.CreateInput{
		TagNumber: "C-003", Species: "goats", Owner: 1,
	})
	if err != nil {
		t.Fatalf("create animal: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("backend id missing: %+v", created)
	}
	if got := len(a.Animals.Snapshot().Items); got != 3 {
		t.Fatalf("mirror after create = %d", got)
	}

	// patch: reconciliación por id
	status := animals.HealthStatusSold
	updated, err := a.Animals.Patch(ctx, created.ID, animals.PatchInput{HealthStatus: &status})
	if err != nil {
		t.Fatalf("patch animal: %v", err)
	}
	if updated.HealthStatus != animals.HealthStatusSold {
		t.Fatalf("patch not applied: %+v", updated)
	}

	// owner_name lo deriva el backend
	got, err := a.Animals.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get animal: %v", err)
	}
	if got.OwnerName != "Maria Lopez" {
		t.Fatalf("owner_name not derived: %+v", got)
	}

	// resto de colecciones para el dashboard
	if _, err := a.Owners.List(ctx, nil); err != nil {
		t.Fatalf("list owners: %v", err)
	}
	if _, err := a.Events.List(ctx, nil); err != nil {
		t.Fatalf("list events: %v", err)
	}
	if _, err := a.Inventory.List(ctx, nil); err != nil {
		t.Fatalf("list inventory: %v", err)
	}

	stats := a.Dashboard()
	if stats.TotalAnimals != 3 || stats.TotalOwners != 1 || stats.TotalEvents != 1 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.AnimalsBySpecies["cattle"] != 2 || stats.AnimalsBySpecies["goats"] != 1 {
		t.Fatalf("unexpected species buckets: %+v", stats.AnimalsBySpecies)
	}
	// seed: 4 bolsas a 18.5 y reorder level 10 => valor 74, 1 item bajo stock
	if stats.TotalInventoryValue != 74 {
		t.Fatalf("inventory value = %v", stats.TotalInventoryValue)
	}
	if stats.LowStockItems != 1 {
		t.Fatalf("low stock items = %d", stats.LowStockItems)
	}

	// baja: el espejo la saca
	if err := a.Animals.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete animal: %v", err)
	}
	if got := len(a.Animals.Snapshot().Items); got != 2 {
		t.Fatalf("mirror after delete = %d", got)
	}
}

func TestFilters_ReachTheBackend(t *testing.T) {
	a := newApp(t)
	login(t, a)

	items, err := a.Animals.List(context.Background(), map[string]string{"health_status": "sick"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(items) != 1 || items[0].TagNumber != "C-002" {
		t.Fatalf("unexpected filtered items: %+v", items)
	}
}

func TestOwnerAnimalCountIsDerived(t *testing.T) {
	a := newApp(t)
	login(t, a)

	os, err := a.Owners.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list owners: %v", err)
	}
	if len(os) != 1 || os[0].AnimalCount != 2 {
		t.Fatalf("unexpected owners: %+v", os)
	}
}

func TestInventoryDerivedFields(t *testing.T) {
	a := newApp(t)
	login(t, a)
	ctx := context.Background()

	items, err := a.Inventory.List(ctx, nil)
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("seeded inventory = %d", len(items))
	}
	it := items[0]
	if it.TotalValue != 74 {
		t.Fatalf("total_value = %v", it.TotalValue)
	}
	if !it.IsLowStock {
		t.Fatalf("expected low-stock flag from backend: %+v", it)
	}

	created, err := a.Inventory.Create(ctx, inventory.CreateInput{
		Name: "Ivermectin", Category: inventory.CategoryMedicine,
		Quantity: 50, Unit: "doses", ReorderLevel: 10, UnitPrice: 1.2,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if created.TotalValue != 60 {
		t.Fatalf("derived total_value = %v", created.TotalValue)
	}
	if created.IsLowStock {
		t.Fatalf("unexpected low-stock flag: %+v", created)
	}
}

func TestNotFoundFromBackend(t *testing.T) {
	a := newApp(t)
	login(t, a)

	_, err := a.Animals.GetByID(context.Background(), 999)
	if err == nil {
		t.Fatalf("expected error")
	}
	if snap := a.Animals.Snapshot(); snap.Err == nil || !snap.Err.IsNotFound() {
		t.Fatalf("expected not-found in store state, got %+v", snap.Err)
	}
}

func TestBackendValidation_MissingRequiredFields(t *testing.T) {
	a := newApp(t)
	login(t, a)

	// El payload crudo esquiva la validación del cliente: valida el backend.
	_, err := a.Animals.Create(context.Background(), map[string]any{"name": "sin tag"})
	if err == nil {
		t.Fatalf("expected error")
	}
	snap := a.Animals.Snapshot()
	if snap.Err == nil || !snap.Err.IsValidation() {
		t.Fatalf("expected validation error, got %+v", snap.Err)
	}
	if len(snap.Err.Fields["tag_number"]) == 0 {
		t.Fatalf("expected tag_number field error, got %+v", snap.Err.Fields)
	}
	if got := len(snap.Items); got != 0 {
		t.Fatalf("mirror mutated on failed create: %d", got)
	}
}

func TestSessionSurvivesRestartWithSameStorage(t *testing.T) {
	stub := stubapi.NewServer(stubapi.Options{Seed: true})
	srv := httptest.NewServer(stub.Handler())
	defer srv.Close()

	creds := memory.NewCredentials()
	cfg := config.Config{APIURL: srv.URL, TimeoutSeconds: 5}

	a1, err := app.New(cfg, app.Options{Creds: creds, Log: logger.Nop()})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	login(t, a1)
	_ = a1.Close()

	// "Reinicio": misma storage, proceso nuevo.
	a2, err := app.New(cfg, app.Options{Creds: creds, Log: logger.Nop()})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	defer a2.Close()

	if !a2.Session.IsAuthenticated() {
		t.Fatalf("session not rehydrated")
	}
	if _, err := a2.Animals.List(context.Background(), nil); err != nil {
		t.Fatalf("authenticated request after restart: %v", err)
	}
}

func TestGetCurrentUser_RoundTrip(t *testing.T) {
	a := newApp(t)
	login(t, a)

	user, err := a.Session.GetCurrentUser(context.Background())
	if err != nil {
		t.Fatalf("get current user: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestRefreshAgainstStub(t *testing.T) {
	a := newApp(t)
	login(t, a)

	before := a.Session.Tokens()
	fresh, err := a.Session.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh == "" || fresh == before.Access {
		t.Fatalf("access token not rotated")
	}
	// El stub no rota el refresh: se conserva el anterior.
	if after := a.Session.Tokens(); after.Refresh != before.Refresh {
		t.Fatalf("refresh token must be kept: %+v", after)
	}
}
