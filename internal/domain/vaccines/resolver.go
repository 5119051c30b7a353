package vaccines

import "time"

// Status es el resultado del resolver para una vacuna del catálogo.
type Status struct {
	Vaccine     Definition
	State       State
	WindowStart time.Time
	WindowEnd   time.Time
	// Schedule que decidió el estado (aplicado o pendiente). nil si no hay.
	Schedule *Schedule
}

// Report es la salida completa del resolver.
type Report struct {
	Today  time.Time
	Items  []Status
	Counts map[State]int
}

// Window devuelve [birth+7*StartWeek, birth+7*EndWeek] a nivel de día, en la
// location de birth. Ambos extremos son inclusivos.
func Window(birth time.Time, d Definition) (start, end time.Time) {
	b := calendarDay(birth, birth.Location())
	return b.AddDate(0, 0, 7*d.StartWeek), b.AddDate(0, 0, 7*d.EndWeek)
}

// Resolve clasifica cada vacuna del catálogo para un bebé nacido en birth.
//
// Reglas, en orden:
//   - algún schedule aplicado => administered
//   - hoy después del fin de la ventana => overdue (haya o no schedule pendiente)
//   - schedule pendiente => scheduled (gana el de fecha más reciente)
//   - antes de la ventana => not_yet_due, dentro => due_now
//
// birth y today se comparan como días calendario: today aporta año/mes/día en
// su propia zona (la del reloj del caller), sin convertir el instante a la
// zona de birth. Schedules de vacunas que no están en el catálogo se ignoran.
func Resolve(birth time.Time, catalog []Definition, schedules []Schedule, today time.Time) Report {
	loc := birth.Location()
	day := calendarDay(today, loc)

	defs := make([]Definition, len(catalog))
	copy(defs, catalog)
	SortCatalog(defs)

	byVaccine := make(map[string][]Schedule, len(schedules))
	for _, s := range schedules {
		byVaccine[s.VaccineID] = append(byVaccine[s.VaccineID], s)
	}

	rep := Report{
		Today:  day,
		Items:  make([]Status, 0, len(defs)),
		Counts: make(map[State]int, len(States)),
	}
	for _, st := range States {
		rep.Counts[st] = 0
	}

	for _, d := range defs {
		start, end := Window(birth, d)
		st := Status{Vaccine: d, WindowStart: start, WindowEnd: end}

		administered, pending := pick(byVaccine[d.ID])
		switch {
		case administered != nil:
			st.State = StateAdministered
			st.Schedule = administered
		case day.After(end):
			st.State = StateOverdue
			st.Schedule = pending
		case pending != nil:
			st.State = StateScheduled
			st.Schedule = pending
		case day.Before(start):
			st.State = StateNotYetDue
		default:
			st.State = StateDueNow
		}

		rep.Counts[st.State]++
		rep.Items = append(rep.Items, st)
	}
	return rep
}

// pick devuelve el último schedule aplicado y el último pendiente, por fecha.
// Empates: el actualizado más tarde.
func pick(items []Schedule) (administered, pending *Schedule) {
	for i := range items {
		s := items[i]
		if s.IsAdministered {
			if administered == nil || later(s, *administered) {
				administered = &s
			}
			continue
		}
		if pending == nil || later(s, *pending) {
			pending = &s
		}
	}
	return administered, pending
}

func later(a, b Schedule) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
