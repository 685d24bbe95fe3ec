package payroll

import (
	"fmt"
	"time"

	"github.com/jhoicas/cooperativa-lactea-api/internal/domain"
)

// DateLayout es el formato de las fechas de período y de PeriodKey.
const DateLayout = "2006-01-02"

// Period es un rango de fechas de calendario, ambos extremos incluidos.
type Period struct {
	Start time.Time // 00:00 del primer día en Loc
	End   time.Time // 00:00 del último día en Loc
	Loc   *time.Location
}

// NewPeriod normaliza start y end a fechas de calendario en loc.
// Devuelve ErrInvalidPeriod si end es anterior a start.
func NewPeriod(start, end time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := truncateDay(start, loc)
	e := truncateDay(end, loc)
	if e.Before(s) {
		return Period{}, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidPeriod)
	}
	return Period{Start: s, End: e, Loc: loc}, nil
}

// ParsePeriod interpreta dos fechas YYYY-MM-DD.
func ParsePeriod(start, end string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: fecha inicial %q", domain.ErrInvalidInput, start)
	}
	e, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: fecha final %q", domain.ErrInvalidInput, end)
	}
	return NewPeriod(s, e, loc)
}

// PeriodFromInterval construye un período de days días que empieza en start (15 o 30 en la práctica).
func PeriodFromInterval(start string, days int, loc *time.Location) (Period, error) {
	if days < 1 {
		return Period{}, fmt.Errorf("%w: intervalo de %d días", domain.ErrInvalidPeriod, days)
	}
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: fecha inicial %q", domain.ErrInvalidInput, start)
	}
	return NewPeriod(s, s.AddDate(0, 0, days-1), loc)
}

// Key es la marca persistida en Payment.PeriodKey: la fecha de inicio.
func (p Period) Key() string { return p.Start.Format(DateLayout) }

// EndKey es la fecha final en el mismo formato que Key.
func (p Period) EndKey() string { return p.End.Format(DateLayout) }

// Days devuelve la cantidad de días del período.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24+0.5) + 1
}

// From y Until delimitan el período como instantes: [From, Until).
// Son los límites que usan las consultas a la base de datos.
func (p Period) From() time.Time  { return p.Start }
func (p Period) Until() time.Time { return p.End.AddDate(0, 0, 1) }

// Contains indica si el instante t cae en alguno de los días del período.
func (p Period) Contains(t time.Time) bool {
	d := truncateDay(t, p.Loc)
	return !d.Before(p.Start) && !d.After(p.End)
}

// ContainsKey compara una PeriodKey almacenada contra el rango (comparación lexicográfica de YYYY-MM-DD).
func (p Period) ContainsKey(key string) bool {
	return key >= p.Key() && key <= p.EndKey()
}

// Label es la forma legible del período para mensajes y comprobantes: 01/03/2024 - 15/03/2024.
func (p Period) Label() string {
	return p.Start.Format("02/01/2006") + " - " + p.End.Format("02/01/2006")
}

func (p Period) String() string { return p.Key() + ".." + p.EndKey() }

func truncateDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
