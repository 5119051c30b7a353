package babies

import "time"

// Gender del bebé.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func (g Gender) valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// Baby es la entidad raíz de cada cuenta parent. Vacunas y mediciones
// la referencian por ID.
type Baby struct {
	ID           string
	ParentUserID string

	Name        string
	DateOfBirth time.Time // sólo fecha (00:00 UTC)
	Gender      Gender

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role indica cómo ve un usuario a un bebé listado.
type Role string

const (
	RoleParent    Role = "parent"
	RoleCaregiver Role = "caregiver"
)
