package inventory

// Category define las categorías de inventario.
// @Enum feed, medicine, equipment, supplies, other
type Category string

const (
	CategoryFeed      Category = "feed"
	CategoryMedicine  Category = "medicine"
	CategoryEquipment Category = "equipment"
	CategorySupplies  Category = "supplies"
	CategoryOther     Category = "other"
)
