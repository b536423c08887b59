package nota

import (
	"fmt"
	"time"
)

// DateLayout - формат календарной даты в файле данных и в API
const DateLayout = "2006-01-02"

// Date - календарная дата без времени суток.
// Вся модель работает только с датами: created_at, updated_at и start_date
// никогда не содержат время.
type Date struct {
	t time.Time
}

// Today возвращает сегодняшнюю дату в локальной временной зоне
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("неверный формат даты '%s', ожидается YYYY-MM-DD (например '2025-03-15')", s)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Compact возвращает дату без разделителей (YYYYMMDD), используется
// для генерации ID повторяющихся задач
func (d Date) Compact() string {
	return d.t.Format("20060102")
}

func (d Date) Year() int { return d.t.Year() }

func (d Date) Month() time.Month { return d.t.Month() }

func (d Date) Day() int { return d.t.Day() }

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// MarshalText сериализует дату как строку YYYY-MM-DD
// (в TOML файле даты хранятся строками в кавычках)
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.t.Format(DateLayout)), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
