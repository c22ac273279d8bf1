package animals

import "time"

// Animal es el espejo local de un animal del backend.
// El wire format es snake_case; los ids los asigna el backend.
type Animal struct {
	ID        int64  `json:"id"`
	TagNumber string `json:"tag_number"`
	Name      string `json:"name,omitempty"`

	Species string `json:"species"`
	Breed   string `json:"breed,omitempty"`
	Gender  Gender `json:"gender,omitempty"`

	DateOfBirth string  `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Weight      float64 `json:"weight,omitempty"`

	HealthStatus HealthStatus `json:"health_status,omitempty"`

	// Owner referencia por id; OwnerName lo deriva el backend.
	Owner     int64  `json:"owner,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`

	AcquisitionDate string  `json:"acquisition_date,omitempty"` // YYYY-MM-DD
	AcquisitionCost float64 `json:"acquisition_cost,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (a Animal) EntityID() int64 { return a.ID }

// CreateInput es el payload de alta. Los tags validate se chequean en el
// cliente antes de mandar; el backend sigue siendo la autoridad.
type CreateInput struct {
	TagNumber string `json:"tag_number" validate:"required"`
	Name      string `json:"name,omitempty"`

	Species string `json:"species" validate:"required"`
	Breed   string `json:"breed,omitempty"`
	Gender  Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female"`

	DateOfBirth string  `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weight      float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`

	HealthStatus HealthStatus `json:"health_status,omitempty" validate:"omitempty,oneof=healthy sick under_treatment pregnant sold deceased"`

	Owner int64 `json:"owner" validate:"required"`

	AcquisitionDate string  `json:"acquisition_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AcquisitionCost float64 `json:"acquisition_cost,omitempty" validate:"omitempty,gte=0"`

	Notes string `json:"notes,omitempty"`
}

// PatchInput es el payload de PATCH: punteros, nil = no tocar.
type PatchInput struct {
	TagNumber *string `json:"tag_number,omitempty"`
	Name      *string `json:"name,omitempty"`

	Species *string `json:"species,omitempty"`
	Breed   *string `json:"breed,omitempty"`
	Gender  *Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female"`

	DateOfBirth *string  `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weight      *float64 `json:"weight,omitempty"`

	HealthStatus *HealthStatus `json:"health_status,omitempty" validate:"omitempty,oneof=healthy sick under_treatment pregnant sold deceased"`

	Owner *int64 `json:"owner,omitempty"`

	Notes *string `json:"notes,omitempty"`
}
