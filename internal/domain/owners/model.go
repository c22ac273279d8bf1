package owners

import "time"

// Owner es el espejo local de un propietario.
type Owner struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	FarmName     string `json:"farm_name,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`

	IsActive bool `json:"is_active"`

	// AnimalCount lo calcula el backend; el cliente lo trata como opaco.
	AnimalCount int `json:"animal_count,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (o Owner) EntityID() int64 { return o.ID }

type CreateInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`

	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	FarmName     string `json:"farm_name,omitempty"`
	FarmLocation string `json:"farm_location,omitempty"`

	IsActive bool `json:"is_active"`
}

type PatchInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`

	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`

	FarmName     *string `json:"farm_name,omitempty"`
	FarmLocation *string `json:"farm_location,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}
