package notifications

import "time"

// Kind clasifica la notificación para la UI.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindAlert   Kind = "alert"
)

// Notification vive solo en el cliente: no hay sincronización con el
// backend para esta entidad.
type Notification struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
	Read    bool   `json:"read"`

	CreatedAt time.Time `json:"created_at,omitzero"`
}
