package engine

import (
	"planner/internal/application/entity"
	"regexp"
	"strconv"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	instantLayout  = "2006-01-02T15:04"
	invalidInstant = "Invalid Date"
)

var (
	reDate  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reClock = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// Instant - момент настенного времени без часового пояса.
// Нулевое значение - единственный невалидный маркер Invalid.
type Instant struct {
	t     time.Time
	valid bool
}

var Invalid = Instant{}

func (i Instant) IsInvalid() bool { return !i.valid }

// Time возвращает момент как time.Time в UTC; для Invalid - нулевое время.
func (i Instant) Time() time.Time { return i.t }

// Before и Equal определены только для валидных моментов: с Invalid всегда false.
func (i Instant) Before(o Instant) bool {
	return i.valid && o.valid && i.t.Before(o.t)
}

func (i Instant) Equal(o Instant) bool {
	return i.valid && o.valid && i.t.Equal(o.t)
}

func (i Instant) Add(d time.Duration) Instant {
	if !i.valid {
		return Invalid
	}
	return Instant{t: i.t.Add(d), valid: true}
}

func (i Instant) String() string {
	if !i.valid {
		return invalidInstant
	}
	return i.t.Format(instantLayout)
}

// FromTime берет поля настенного времени у t, пояс отбрасывается.
func FromTime(t time.Time) Instant {
	return Instant{
		t:     time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC),
		valid: true,
	}
}

// ParseDate разбирает YYYY-MM-DD и проверяет, что такой день есть в месяце.
func ParseDate(date string) (time.Time, bool) {
	m := reDate.FindStringSubmatch(date)
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if mo < 1 || mo > 12 || d < 1 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует 2024-02-30 в 2024-03-01, такое считаем ошибкой
	if t.Day() != d || int(t.Month()) != mo {
		return time.Time{}, false
	}
	return t, true
}

// ParseClock разбирает HH:MM (00:00..23:59) в смещение от начала суток.
func ParseClock(clock string) (time.Duration, bool) {
	m := reClock.FindStringSubmatch(clock)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	if h > 23 || mi > 59 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute, true
}

// ParseInstant собирает момент из даты и времени. Некорректный ввод дает Invalid, а не ошибку.
func ParseInstant(date, clock string) Instant {
	day, ok := ParseDate(date)
	if !ok {
		return Invalid
	}
	offset, ok := ParseClock(clock)
	if !ok {
		return Invalid
	}
	return Instant{t: day.Add(offset), valid: true}
}

type TimeRange struct {
	Start Instant
	End   Instant
}

// EventRange разбирает концы интервала независимо друг от друга.
func EventRange(e entity.Event) TimeRange {
	return TimeRange{
		Start: ParseInstant(e.Date, e.StartTime),
		End:   ParseInstant(e.Date, e.EndTime),
	}
}

func DraftRange(d entity.EventDraft) TimeRange {
	return TimeRange{
		Start: ParseInstant(d.Date, d.StartTime),
		End:   ParseInstant(d.Date, d.EndTime),
	}
}

func (r TimeRange) Valid() bool {
	return !r.Start.IsInvalid() && !r.End.IsInvalid()
}
