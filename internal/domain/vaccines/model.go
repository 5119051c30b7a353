package vaccines

import "time"

// Definition es una entrada inmutable del catálogo. La ventana recomendada
// se expresa en semanas desde el nacimiento.
type Definition struct {
	ID          string
	Name        string
	StartWeek   int
	EndWeek     int
	Description string
}

// Schedule es una vacuna agendada (y eventualmente aplicada) para un bebé.
type Schedule struct {
	ID        string
	BabyID    string
	VaccineID string

	Hospital string
	Location string
	Date     time.Time

	IsAdministered bool
	AdministeredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State es la clasificación de una vacuna del catálogo para un bebé.
// @Enum not_yet_due, due_now, overdue, scheduled, administered
type State string

const (
	StateNotYetDue    State = "not_yet_due"
	StateDueNow       State = "due_now"
	StateOverdue      State = "overdue"
	StateScheduled    State = "scheduled"
	StateAdministered State = "administered"
)

// States en orden de presentación.
var States = []State{StateOverdue, StateDueNow, StateScheduled, StateNotYetDue, StateAdministered}
