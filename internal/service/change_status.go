package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gtdTracker/internal/document"
	"gtdTracker/internal/logger"
	"gtdTracker/internal/models/nota"
)

// StatusChange - успешный перевод одной ноты
type StatusChange struct {
	ID               string
	OldStatus        nota.Status
	NewStatus        nota.Status
	NextOccurrenceID string
}

// ChangeFailure - нота, которую перевести не удалось, с причиной
type ChangeFailure struct {
	ID     string
	Reason string
}

// ChangeStatusResult - итог пакетного перевода: успехи и отказы раздельно
type ChangeStatusResult struct {
	Successes []StatusChange
	Failures  []ChangeFailure
}

// ChangeStatus переводит пачку нот в новый статус. Каждый ID
// обрабатывается независимо: отказ одного не откатывает остальные.
// Сохранение происходит один раз, если был хотя бы один успех.
// Если не удался ни один перевод, возвращается ошибка валидации
// с перечнем причин.
//
// Перевод повторяющейся ноты в done порождает следующую: копия с ID
// вида "<id>-<YYYYMMDD>", стартовой датой следующего вхождения и
// исходным (не done) статусом. Если такой ID уже есть, копия не создаётся.
func (s *GtdService) ChangeStatus(ctx context.Context, ids []string, statusStr, startDateStr string) (ChangeStatusResult, error) {
	var result ChangeStatusResult
	if len(ids) == 0 {
		return result, NewValidationError("ids", "нужен хотя бы один ID")
	}

	status, err := nota.ParseStatus(statusStr)
	if err != nil {
		return result, NewValidationError("status", err.Error())
	}

	var startDate *nota.Date
	if startDateStr != "" {
		d, err := nota.ParseDate(startDateStr)
		if err != nil {
			return result, NewValidationError("start_date", err.Error())
		}
		startDate = &d
	}

	s.mu.Lock()

	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)

		n, ok := s.store.FindByID(id)
		if !ok {
			result.Failures = append(result.Failures, ChangeFailure{id, "не найдена"})
			continue
		}
		oldStatus := n.Status

		if status == nota.StatusCalendar && startDate == nil && n.StartDate == nil {
			result.Failures = append(result.Failures,
				ChangeFailure{id, "статус calendar требует start_date"})
			continue
		}

		if status == nota.StatusTrash {
			if refs := s.store.ReferencedBy(id); len(refs) > 0 {
				result.Failures = append(result.Failures,
					ChangeFailure{id, NewStillReferenced(id, refs).Message})
				continue
			}
		}

		n.Status = status
		if startDate != nil {
			d := *startDate
			n.StartDate = &d
		}
		n.UpdatedAt = nota.Today()

		var nextID string
		if status == nota.StatusDone && n.IsRecurring() {
			nextID = s.spawnNextOccurrence(n, oldStatus)
		}

		if _, ok := s.store.Update(id, n); !ok {
			result.Failures = append(result.Failures, ChangeFailure{id, "не удалось обновить"})
			continue
		}
		result.Successes = append(result.Successes, StatusChange{
			ID:               id,
			OldStatus:        oldStatus,
			NewStatus:        status,
			NextOccurrenceID: nextID,
		})
	}

	if len(result.Successes) == 0 {
		s.mu.Unlock()
		reasons := make([]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			reasons = append(reasons, fmt.Sprintf("%s: %s", f.ID, f.Reason))
		}
		return result, NewValidationError("ids", strings.Join(reasons, "; "))
	}

	data, err := document.Encode(s.store)
	s.mu.Unlock()
	if err != nil {
		return result, err
	}

	subject := result.Successes[0].ID
	if len(result.Successes) > 1 {
		subject = fmt.Sprintf("%d items", len(result.Successes))
	}
	if err := s.persist(data, fmt.Sprintf("Change %s status to %s", subject, status)); err != nil {
		return result, err
	}

	logger.Info("Service: Статусы изменены",
		zap.Int("succeeded", len(result.Successes)),
		zap.Int("failed", len(result.Failures)),
		zap.String("status", string(status)))
	return result, nil
}

// spawnNextOccurrence добавляет ноту следующего вхождения и возвращает
// её ID, либо пустую строку, если вхождения нет или ID уже занят.
// Вызывается под мьютексом.
func (s *GtdService) spawnNextOccurrence(done nota.Nota, oldStatus nota.Status) string {
	from := nota.Today()
	if done.StartDate != nil {
		from = *done.StartDate
	}
	next, ok := done.NextOccurrence(from)
	if !ok {
		return ""
	}

	spawn := done
	spawn.ID = fmt.Sprintf("%s-%s", done.ID, next.Compact())
	spawn.StartDate = &next
	spawn.Status = oldStatus
	spawn.CreatedAt = nota.Today()
	spawn.UpdatedAt = nota.Today()

	if s.store.Contains(spawn.ID) {
		return ""
	}
	s.store.Add(spawn)
	return spawn.ID
}
