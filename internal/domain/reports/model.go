package reports

import "time"

// Report es el espejo local de un reporte generado en el backend.
type Report struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	ReportType string `json:"report_type,omitempty"`

	DateFrom string `json:"date_from,omitempty"` // YYYY-MM-DD
	DateTo   string `json:"date_to,omitempty"`   // YYYY-MM-DD

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (r Report) EntityID() int64 { return r.ID }

type CreateInput struct {
	Title string `json:"title" validate:"required"`

	ReportType string `json:"report_type,omitempty"`

	DateFrom string `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Notes string `json:"notes,omitempty"`
}
