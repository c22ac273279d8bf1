package reports

import (
	"livestock-client/internal/domain/animals"
	"livestock-client/internal/domain/events"
	"livestock-client/internal/domain/inventory"
	"livestock-client/internal/domain/owners"
)

// SpeciesFallback agrupa animales sin especie reconocible.
const SpeciesFallback = "Other"

// RecentEventLimit es cuántos eventos muestra el dashboard.
const RecentEventLimit = 5

// DashboardStats son los agregados del dashboard, calculados en el cliente
// sobre el snapshot actual de los stores.
type DashboardStats struct {
	TotalAnimals int
	TotalOwners  int
	TotalEvents  int

	HealthyAnimals int
	UnderTreatment int

	AnimalsBySpecies map[string]int

	TotalInventoryValue float64
	LowStockItems       int

	RecentEvents []events.Event
}

// Compute es puro: mismo snapshot, mismo resultado. Se recalcula cada vez
// que cambia alguna colección de entrada; no hay memoización.
func Compute(
	as []animals.Animal,
	os []owners.Owner,
	es []events.Event,
	items []inventory.Item,
) DashboardStats {
	stats := DashboardStats{
		TotalAnimals:     len(as),
		TotalOwners:      len(os),
		TotalEvents:      len(es),
		AnimalsBySpecies: make(map[string]int),
	}

	for _, a := range as {
		switch a.HealthStatus {
		case animals.HealthStatusHealthy:
			stats.HealthyAnimals++
		case animals.HealthStatusSick, animals.HealthStatusUnderTreatment:
			stats.UnderTreatment++
		}

		species := a.Species
		if species == "" {
			species = SpeciesFallback
		}
		stats.AnimalsBySpecies[species]++
	}

	for _, it := range items {
		stats.TotalInventoryValue += it.Value()
		if it.LowStock() {
			stats.LowStockItems++
		}
	}

	// "Recientes" = primeros N en el orden que devolvió el backend.
	// No se reordena por timestamp.
	n := min(RecentEventLimit, len(es))
	stats.RecentEvents = make([]events.Event, n)
	copy(stats.RecentEvents, es[:n])

	return stats
}

// LowStockAlerts devuelve los ítems bajo el nivel de reposición,
// acotados a limit (el dashboard muestra los primeros 5).
func LowStockAlerts(items []inventory.Item, limit int) []inventory.Item {
	out := make([]inventory.Item, 0)
	for _, it := range items {
		if it.LowStock() {
			out = append(out, it)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
