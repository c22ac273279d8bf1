package events

import "time"

// Event es el espejo local de un evento de ganado (vacunación, venta, etc).
// Muchos eventos referencian un animal.
type Event struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`

	EventType EventType `json:"event_type"`
	Date      string    `json:"date"` // YYYY-MM-DD

	// Animal referencia por id; AnimalTag lo deriva el backend.
	Animal    int64  `json:"animal,omitempty"`
	AnimalTag string `json:"animal_tag,omitempty"`

	Cost float64 `json:"cost,omitempty"`

	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (e Event) EntityID() int64 { return e.ID }

type CreateInput struct {
	Title string `json:"title,omitempty"`

	EventType EventType `json:"event_type" validate:"required,oneof=birth death sale purchase vaccination treatment checkup breeding weaning other"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`

	Animal int64 `json:"animal" validate:"required"`

	Cost float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`

	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type PatchInput struct {
	Title *string `json:"title,omitempty"`

	EventType *EventType `json:"event_type,omitempty" validate:"omitempty,oneof=birth death sale purchase vaccination treatment checkup breeding weaning other"`
	Date      *string    `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Animal *int64 `json:"animal,omitempty"`

	Cost *float64 `json:"cost,omitempty"`

	Description *string `json:"description,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}
