package inventory

import "time"

// Item es el espejo local de un ítem de inventario.
type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	Category Category `json:"category"`

	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	ReorderLevel float64 `json:"reorder_level,omitempty"`

	UnitPrice float64 `json:"unit_price,omitempty"`
	// TotalValue lo calcula el backend (quantity * unit_price).
	// Si viene vacío, Value() lo calcula como fallback.
	TotalValue float64 `json:"total_value,omitempty"`

	// IsLowStock lo deriva el backend; LowStock() cubre el caso
	// en que no venga seteado.
	IsLowStock bool `json:"is_low_stock,omitempty"`

	Supplier        string `json:"supplier,omitempty"`
	SupplierContact string `json:"supplier_contact,omitempty"`

	ExpiryDate string `json:"expiry_date,omitempty"` // YYYY-MM-DD

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (i Item) EntityID() int64 { return i.ID }

// Value devuelve total_value si el backend lo mandó, si no quantity * unit_price.
func (i Item) Value() float64 {
	if i.TotalValue > 0 {
		return i.TotalValue
	}
	return i.Quantity * i.UnitPrice
}

// LowStock: flag del backend O quantity <= reorder_level.
func (i Item) LowStock() bool {
	return i.IsLowStock || i.Quantity <= i.ReorderLevel
}

type CreateInput struct {
	Name string `json:"name" validate:"required"`

	Category Category `json:"category" validate:"required,oneof=feed medicine equipment supplies other"`

	Quantity     float64 `json:"quantity" validate:"gte=0"`
	Unit         string  `json:"unit,omitempty"`
	ReorderLevel float64 `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`

	UnitPrice float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`

	Supplier        string `json:"supplier,omitempty"`
	SupplierContact string `json:"supplier_contact,omitempty"`

	ExpiryDate string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type PatchInput struct {
	Name *string `json:"name,omitempty"`

	Category *Category `json:"category,omitempty" validate:"omitempty,oneof=feed medicine equipment supplies other"`

	Quantity     *float64 `json:"quantity,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	ReorderLevel *float64 `json:"reorder_level,omitempty"`

	UnitPrice *float64 `json:"unit_price,omitempty"`

	Supplier        *string `json:"supplier,omitempty"`
	SupplierContact *string `json:"supplier_contact,omitempty"`

	ExpiryDate *string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
