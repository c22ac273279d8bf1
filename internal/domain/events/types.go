package events

// EventType define los tipos de evento de ganado soportados.
// @Enum birth, death, sale, purchase, vaccination, treatment, checkup, breeding, weaning, other
type EventType string

const (
	EventTypeBirth       EventType = "birth"
	EventTypeDeath       EventType = "death"
	EventTypeSale        EventType = "sale"
	EventTypePurchase    EventType = "purchase"
	EventTypeVaccination EventType = "vaccination"
	EventTypeTreatment   EventType = "treatment"
	EventTypeCheckup     EventType = "checkup"
	EventTypeBreeding    EventType = "breeding"
	EventTypeWeaning     EventType = "weaning"
	EventTypeOther       EventType = "other"
)
