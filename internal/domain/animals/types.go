package animals

// HealthStatus define los estados de salud soportados.
// @Enum healthy, sick, under_treatment, pregnant, sold, deceased
type HealthStatus string

const (
	HealthStatusHealthy        HealthStatus = "healthy"
	HealthStatusSick           HealthStatus = "sick"
	HealthStatusUnderTreatment HealthStatus = "under_treatment"
	HealthStatusPregnant       HealthStatus = "pregnant"
	HealthStatusSold           HealthStatus = "sold"
	HealthStatusDeceased       HealthStatus = "deceased"
)

// Gender define el sexo del animal.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Species conocidas. El backend acepta texto libre; estas son las
// que la UI ofrece por defecto.
const (
	SpeciesCattle  = "cattle"
	SpeciesSheep   = "sheep"
	SpeciesGoat    = "goat"
	SpeciesPig     = "pig"
	SpeciesPoultry = "poultry"
	SpeciesHorse   = "horse"
)
