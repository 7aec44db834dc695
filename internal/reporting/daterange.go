// Пакет reporting — расчёт отчётов о продажах: границы диапазонов,
// фильтрация и агрегаты по заказам, построение CSV.
package reporting

import (
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/pos_reports/internal/domain"
)

const lastMillisecond = 999 * int(time.Millisecond)

// Resolver — вычисляет границы диапазона по спецификатору.
// Часы и часовой пояс внедряются, чтобы расчёт был детерминированным.
type Resolver struct {
	now func() time.Time
	loc *time.Location
}

// NewResolver — конструктор; nil-аргументы заменяются на time.Now и time.Local.
func NewResolver(now func() time.Time, loc *time.Location) *Resolver {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{now: now, loc: loc}
}

// Location — часовой пояс, в котором считаются границы.
func (r *Resolver) Location() *time.Location { return r.loc }

// Now — текущий момент по часам резолвера.
func (r *Resolver) Now() time.Time { return r.now().In(r.loc) }

// Resolve — границы диапазона; ok=false, если диапазон вычислить нельзя.
// Порядок start <= end для custom-* видов здесь не проверяется.
func (r *Resolver) Resolve(spec domain.RangeSpec) (domain.DateRange, bool) {
	now := r.Now()

	switch spec.Kind {
	case domain.RangeDay:
		start := r.midnight(now.Year(), now.Month(), now.Day())
		end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
		return domain.DateRange{Start: start, End: end}, true

	case domain.RangeWeek:
		end := r.endOfDay(now.Year(), now.Month(), now.Day())
		start := r.midnight(end.Year(), end.Month(), end.Day()-6)
		return domain.DateRange{Start: start, End: end}, true

	case domain.RangeMonth:
		start := r.midnight(now.Year(), now.Month(), 1)
		end := r.midnight(now.Year(), now.Month()+1, 1).Add(-time.Millisecond)
		return domain.DateRange{Start: start, End: end}, true

	case domain.RangeCustomDate:
		from, okFrom := r.ParseCalendarDate(spec.Start)
		to, okTo := r.ParseCalendarDate(spec.End)
		if !okFrom || !okTo {
			return domain.DateRange{}, false
		}
		return domain.DateRange{
			Start: r.midnight(from.Year(), from.Month(), from.Day()),
			End:   r.endOfDay(to.Year(), to.Month(), to.Day()),
		}, true

	case domain.RangeCustomMonth:
		startYear, startMonth, okStart := parseYearMonth(spec.Start)
		endYear, endMonth, okEnd := parseYearMonth(spec.End)
		if !okStart || !okEnd {
			return domain.DateRange{}, false
		}
		start := r.midnight(startYear, time.Month(startMonth), 1)
		end := r.midnight(endYear, time.Month(endMonth+1), 1).Add(-time.Millisecond)
		return domain.DateRange{Start: start, End: end}, true

	case domain.RangeCustomYear:
		startYear, errStart := strconv.Atoi(strings.TrimSpace(spec.Start))
		endYear, errEnd := strconv.Atoi(strings.TrimSpace(spec.End))
		if errStart != nil || errEnd != nil {
			return domain.DateRange{}, false
		}
		start := r.midnight(startYear, time.January, 1)
		end := r.midnight(endYear+1, time.January, 1).Add(-time.Millisecond)
		return domain.DateRange{Start: start, End: end}, true

	default:
		return domain.DateRange{}, false
	}
}

// ParseCalendarDate — дата вида 2006-01-02 (или RFC3339, от которой берётся локальная дата).
func (r *Resolver) ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.ParseInLocation(time.DateOnly, s, r.loc); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		local := ts.In(r.loc)
		return r.midnight(local.Year(), local.Month(), local.Day()), true
	}
	return time.Time{}, false
}

func (r *Resolver) midnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, r.loc)
}

func (r *Resolver) endOfDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 23, 59, 59, lastMillisecond, r.loc)
}

// parseYearMonth — "YYYY-MM"; лишние сегменты игнорируются.
func parseYearMonth(s string) (year, month int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 2 {
		return 0, 0, false
	}
	year, errYear := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errMonth := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errYear != nil || errMonth != nil {
		return 0, 0, false
	}
	return year, month, true
}
