package nota

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Pattern - правило повторения задачи после завершения
type Pattern string

const (
	// Daily - каждый день, конфигурация не используется
	Daily Pattern = "daily"
	// Weekly - по дням недели, конфигурация: "Monday,Wednesday,Friday"
	Weekly Pattern = "weekly"
	// Monthly - по числам месяца, конфигурация: "1,15,25"
	Monthly Pattern = "monthly"
	// Yearly - по парам месяц-день, конфигурация: "1-1,12-25"
	Yearly Pattern = "yearly"
)

// ParsePattern разбирает строку паттерна повторения
func ParsePattern(s string) (Pattern, error) {
	switch Pattern(s) {
	case Daily, Weekly, Monthly, Yearly:
		return Pattern(s), nil
	}
	return "", fmt.Errorf("неверный паттерн повторения '%s'. Допустимые значения: daily, weekly, monthly, yearly", s)
}

// RequiresConfig сообщает, обязательна ли конфигурация для паттерна.
// Для daily конфигурация игнорируется.
func (p Pattern) RequiresConfig() bool {
	return p == Weekly || p == Monthly || p == Yearly
}

var weekdayNames = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

// NextOccurrence вычисляет дату следующего повторения начиная с from.
// Возвращает false, если конфигурация пуста или не разбирается -
// нераспознанная конфигурация означает "повторения нет", а не ошибку.
// Возвращённая дата всегда строго больше from.
func NextOccurrence(pattern Pattern, config string, from Date) (Date, bool) {
	switch pattern {
	case Daily:
		return from.AddDays(1), true

	case Weekly:
		targets := map[time.Weekday]bool{}
		for _, name := range strings.Split(config, ",") {
			if wd, ok := weekdayNames[strings.TrimSpace(name)]; ok {
				targets[wd] = true
			}
		}
		if len(targets) == 0 {
			return Date{}, false
		}
		next := from.AddDays(1)
		for i := 0; i < 7; i++ {
			if targets[next.Weekday()] {
				return next, true
			}
			next = next.AddDays(1)
		}
		return Date{}, false

	case Monthly:
		targets := map[int]bool{}
		for _, part := range strings.Split(config, ",") {
			if day, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				targets[day] = true
			}
		}
		if len(targets) == 0 {
			return Date{}, false
		}
		// проверяем до года вперёд: "31" в коротком месяце просто пропускается
		next := from.AddDays(1)
		for i := 0; i < 366; i++ {
			if targets[next.Day()] {
				return next, true
			}
			next = next.AddDays(1)
		}
		return Date{}, false

	case Yearly:
		type monthDay struct {
			month time.Month
			day   int
		}
		targets := map[monthDay]bool{}
		for _, part := range strings.Split(config, ",") {
			fields := strings.Split(strings.TrimSpace(part), "-")
			if len(fields) != 2 {
				continue
			}
			month, errM := strconv.Atoi(fields[0])
			day, errD := strconv.Atoi(fields[1])
			if errM != nil || errD != nil {
				continue
			}
			targets[monthDay{time.Month(month), day}] = true
		}
		if len(targets) == 0 {
			return Date{}, false
		}
		next := from.AddDays(1)
		for i := 0; i < 366; i++ {
			if targets[monthDay{next.Month(), next.Day()}] {
				return next, true
			}
			next = next.AddDays(1)
		}
		return Date{}, false
	}

	return Date{}, false
}

// NextOccurrence вычисляет следующее повторение ноты начиная с from
func (n *Nota) NextOccurrence(from Date) (Date, bool) {
	if !n.IsRecurring() {
		return Date{}, false
	}
	return NextOccurrence(n.RecurrencePattern, n.RecurrenceConfig, from)
}
