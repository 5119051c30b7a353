package mealplans

import "time"

// Weekday en minúscula inglés, como lo manda la app.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) valid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

type Meal struct {
	Name  string `json:"name"`
	Time  string `json:"time,omitempty"` // HH:MM
	Notes string `json:"notes,omitempty"`
}

// MealPlan es el plan semanal de un bebé (uno por bebé).
type MealPlan struct {
	BabyID    string             `json:"baby_id"`
	Days      map[Weekday][]Meal `json:"days"`
	UpdatedAt time.Time          `json:"updated_at"`
	UpdatedBy string             `json:"updated_by,omitempty"`
}
