package measurements

import (
	"fmt"
	"math"
	"time"
)

// Span es el rango del gráfico.
// @Enum week, month, six_months, year
type Span string

const (
	SpanWeek      Span = "week"
	SpanMonth     Span = "month"
	SpanSixMonths Span = "six_months"
	SpanYear      Span = "year"
)

func ParseSpan(s string) (Span, error) {
	switch sp := Span(s); sp {
	case SpanWeek, SpanMonth, SpanSixMonths, SpanYear:
		return sp, nil
	case "":
		return SpanWeek, nil
	default:
		return "", fmt.Errorf("unknown span %q", s)
	}
}

// Bucket es un intervalo [Start, End) con el valor del último registro que
// cae adentro. Value es NaN si el bucket está vacío.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
	Value float64
}

// Empty reporta si el bucket no tiene registro.
func (b Bucket) Empty() bool { return math.IsNaN(b.Value) }

// Buckets arma los intervalos del span terminando en el día de now (location
// de now). Span desconocido => nil.
//
//   - week: 7 días, label "Mon"
//   - month: 4 bloques de 7 días (últimos 28 días), label W1..W4
//   - six_months / year: 6 / 12 meses calendario, label "Jan"
func Buckets(span Span, now time.Time) []Bucket {
	loc := now.Location()
	today := calendarDay(now, loc)

	switch span {
	case SpanWeek:
		out := make([]Bucket, 0, 7)
		for i := 6; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			out = append(out, Bucket{
				Label: start.Weekday().String()[:3],
				Start: start,
				End:   start.AddDate(0, 0, 1),
			})
		}
		return out

	case SpanMonth:
		out := make([]Bucket, 0, 4)
		first := today.AddDate(0, 0, -27)
		for i := 0; i < 4; i++ {
			start := first.AddDate(0, 0, 7*i)
			out = append(out, Bucket{
				Label: fmt.Sprintf("W%d", i+1),
				Start: start,
				End:   start.AddDate(0, 0, 7),
			})
		}
		return out

	case SpanSixMonths, SpanYear:
		n := 6
		if span == SpanYear {
			n = 12
		}
		current := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		out := make([]Bucket, 0, n)
		for i := n - 1; i >= 0; i-- {
			start := current.AddDate(0, -i, 0)
			out = append(out, Bucket{
				Label: start.Month().String()[:3],
				Start: start,
				End:   start.AddDate(0, 1, 0),
			})
		}
		return out
	}
	return nil
}

// Aggregate agrupa records en los buckets del span y se queda con el más
// reciente por bucket (empate: CreatedAt mayor, después el último del input).
// El bucket sale del día calendario de Date tal como se cargó, no de
// convertir el instante a la zona de now. Registros fuera del span se
// ignoran. El caller filtra por tipo.
func Aggregate(records []Record, span Span, now time.Time) []Bucket {
	buckets := Buckets(span, now)
	if len(buckets) == 0 {
		return nil
	}

	winners := make([]*Record, len(buckets))
	for i := range records {
		rec := &records[i]
		idx := bucketIndex(buckets, calendarDay(rec.Date, now.Location()))
		if idx < 0 {
			continue
		}
		if w := winners[idx]; w == nil || !newer(*w, *rec) {
			winners[idx] = rec
		}
	}

	for i := range buckets {
		if winners[i] == nil {
			buckets[i].Value = math.NaN()
			continue
		}
		buckets[i].Value = winners[i].Value
	}
	return buckets
}

// newer reporta si a le gana estrictamente a b.
func newer(a, b Record) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func bucketIndex(buckets []Bucket, t time.Time) int {
	for i, b := range buckets {
		if !t.Before(b.Start) && t.Before(b.End) {
			return i
		}
	}
	return -1
}

// calendarDay toma año/mes/día de t en su propia zona y los ubica en loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
