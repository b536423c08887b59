package document

import (
	"gtdTracker/internal/models/nota"
)

// notaRecord - запись ноты в текущем формате файла данных.
// Порядок полей фиксирован и совпадает с порядком ключей в файле.
type notaRecord struct {
	ID                string     `toml:"id"`
	Title             string     `toml:"title"`
	Status            string     `toml:"status"`
	Project           *string    `toml:"project,omitempty"`
	Context           *string    `toml:"context,omitempty"`
	Notes             *string    `toml:"notes,omitempty"`
	StartDate         *nota.Date `toml:"start_date,omitempty"`
	CreatedAt         nota.Date  `toml:"created_at"`
	UpdatedAt         nota.Date  `toml:"updated_at"`
	RecurrencePattern *string    `toml:"recurrence_pattern,omitempty"`
	RecurrenceConfig  *string    `toml:"recurrence_config,omitempty"`
}

func recordFromNota(n nota.Nota) notaRecord {
	return notaRecord{
		ID:                n.ID,
		Title:             n.Title,
		Status:            string(n.Status),
		Project:           optString(n.Project),
		Context:           optString(n.Context),
		Notes:             optString(n.Notes),
		StartDate:         n.StartDate,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
		RecurrencePattern: optString(string(n.RecurrencePattern)),
		RecurrenceConfig:  optString(n.RecurrenceConfig),
	}
}

func (r notaRecord) toNota() (nota.Nota, error) {
	// отсутствующий статус по умолчанию inbox, неизвестный - ошибка декодирования
	status := nota.StatusInbox
	if r.Status != "" {
		parsed, err := nota.ParseStatus(r.Status)
		if err != nil {
			return nota.Nota{}, err
		}
		status = parsed
	}

	var pattern nota.Pattern
	if p := deref(r.RecurrencePattern); p != "" {
		parsed, err := nota.ParsePattern(p)
		if err != nil {
			return nota.Nota{}, err
		}
		pattern = parsed
	}

	return nota.Nota{
		ID:                r.ID,
		Title:             r.Title,
		Status:            status,
		Project:           deref(r.Project),
		Context:           deref(r.Context),
		Notes:             deref(r.Notes),
		StartDate:         r.StartDate,
		CreatedAt:         dateOrToday(r.CreatedAt),
		UpdatedAt:         dateOrToday(r.UpdatedAt),
		RecurrencePattern: pattern,
		RecurrenceConfig:  deref(r.RecurrenceConfig),
	}, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func dateOrToday(d nota.Date) nota.Date {
	if d.IsZero() {
		return nota.Today()
	}
	return d
}
