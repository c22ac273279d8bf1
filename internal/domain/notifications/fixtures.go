package notifications

import "time"

// Fixtures siembra el store. Equivale a los datos mock del original:
// esta entidad no tiene protocolo real de entrega (no-goal explícito).
func Fixtures(now time.Time) []Notification {
	return []Notification{
		{
			ID:        1,
			Title:     "Vaccination due",
			Message:   "3 animals have vaccinations scheduled this week",
			Kind:      KindWarning,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        2,
			Title:     "Low stock",
			Message:   "Cattle feed is below the reorder level",
			Kind:      KindAlert,
			CreatedAt: now.Add(-26 * time.Hour),
		},
		{
			ID:        3,
			Title:     "Welcome",
			Message:   "Your livestock workspace is ready",
			Kind:      KindInfo,
			Read:      true,
			CreatedAt: now.Add(-72 * time.Hour),
		},
	}
}
