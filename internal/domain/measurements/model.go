package measurements

import "time"

// Type de medición de crecimiento.
// @Enum height, weight, head_circumference
type Type string

const (
	TypeHeight            Type = "height"
	TypeWeight            Type = "weight"
	TypeHeadCircumference Type = "head_circumference"
)

// Types en orden de presentación.
var Types = []Type{TypeHeight, TypeWeight, TypeHeadCircumference}

func (t Type) Valid() bool {
	switch t {
	case TypeHeight, TypeWeight, TypeHeadCircumference:
		return true
	}
	return false
}

// Unit es la unidad en la que se guarda cada tipo.
func (t Type) Unit() string {
	switch t {
	case TypeWeight:
		return "kg"
	default:
		return "cm"
	}
}

// Record es inmutable una vez guardado.
type Record struct {
	ID         string
	BabyID     string
	Type       Type
	Value      float64
	Date       time.Time
	RecordedBy string
	CreatedAt  time.Time
}
