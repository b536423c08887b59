package service

import (
	"context"
	"strings"

	"gtdTracker/internal/models/nota"
)

// ListFilter - необязательные фильтры выборки. Пустые значения
// означают отсутствие фильтра, применяются все заданные сразу.
type ListFilter struct {
	Status  string
	Date    string
	Keyword string
	Project string
	Context string
}

// List возвращает ноты, прошедшие все фильтры, в порядке хранения
func (s *GtdService) List(ctx context.Context, filter ListFilter) ([]nota.Nota, error) {
	var statusFilter *nota.Status
	if filter.Status != "" {
		status, err := nota.ParseStatus(filter.Status)
		if err != nil {
			return nil, NewValidationError("status", err.Error())
		}
		statusFilter = &status
	}

	var dateFilter *nota.Date
	if filter.Date != "" {
		d, err := nota.ParseDate(filter.Date)
		if err != nil {
			return nil, NewValidationError("date", err.Error())
		}
		dateFilter = &d
	}

	s.mu.Lock()
	var notas []nota.Nota
	if statusFilter != nil {
		notas = s.store.ListByStatus(*statusFilter)
	} else {
		notas = s.store.ListAll()
	}
	s.mu.Unlock()

	if dateFilter != nil {
		notas = applyDateFilter(notas, *dateFilter)
	}
	if filter.Keyword != "" {
		notas = applyKeywordFilter(notas, filter.Keyword)
	}
	if filter.Project != "" {
		notas = applyProjectFilter(notas, filter.Project)
	}
	if filter.Context != "" {
		notas = applyContextFilter(notas, filter.Context)
	}
	return notas, nil
}

// applyDateFilter прячет календарные ноты, назначенные на будущее.
// Ноты с другими статусами фильтр не трогает, календарная нота без
// даты остаётся видимой.
func applyDateFilter(notas []nota.Nota, date nota.Date) []nota.Nota {
	kept := notas[:0]
	for _, n := range notas {
		if n.Status == nota.StatusCalendar && n.StartDate != nil && n.StartDate.After(date) {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// applyKeywordFilter ищет подстроку без учёта регистра в ID,
// заголовке и заметках
func applyKeywordFilter(notas []nota.Nota, keyword string) []nota.Nota {
	needle := strings.ToLower(keyword)
	kept := notas[:0]
	for _, n := range notas {
		if strings.Contains(strings.ToLower(n.ID), needle) ||
			strings.Contains(strings.ToLower(n.Title), needle) ||
			strings.Contains(strings.ToLower(n.Notes), needle) {
			kept = append(kept, n)
		}
	}
	return kept
}

func applyProjectFilter(notas []nota.Nota, projectID string) []nota.Nota {
	kept := notas[:0]
	for _, n := range notas {
		if n.Project == projectID {
			kept = append(kept, n)
		}
	}
	return kept
}

func applyContextFilter(notas []nota.Nota, contextName string) []nota.Nota {
	kept := notas[:0]
	for _, n := range notas {
		if n.Context == contextName {
			kept = append(kept, n)
		}
	}
	return kept
}
