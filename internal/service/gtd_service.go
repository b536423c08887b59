package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gtdTracker/internal/document"
	"gtdTracker/internal/logger"
	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/store"
)

// здесь происходит проверка ошибок бизнес-логики

// Persistence - доступ к файлу данных на диске
type Persistence interface {
	Load() (*store.Store, error)
	Write(data []byte) error
	Path() string
}

// Syncer отправляет изменения файла данных в git
type Syncer interface {
	Sync(path, message string) error
}

// GtdService держит хранилище нот в памяти и сериализует доступ к нему.
// Мутация и кодирование документа идут под мьютексом, запись на диск и
// git-синхронизация уже после освобождения.
type GtdService struct {
	mu          sync.Mutex
	store       *store.Store
	persistence Persistence
	syncer      Syncer
}

// NewGtdService загружает файл данных и создаёт сервис.
// syncer может быть nil, тогда git-синхронизация выключена.
func NewGtdService(p Persistence, syncer Syncer) (*GtdService, error) {
	st, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("загрузка файла данных: %w", err)
	}
	return &GtdService{
		store:       st,
		persistence: p,
		syncer:      syncer,
	}, nil
}

// CreateParams - параметры создания ноты. Пустой ID означает
// автогенерацию из счётчиков: "project-N" для проектов, "#N" для
// остальных. Статус и даты приходят строками и разбираются здесь.
type CreateParams struct {
	ID               string
	Title            string
	Status           string
	Project          string
	Context          string
	Notes            string
	StartDate        string
	Recurrence       string
	RecurrenceConfig string
}

// Create создаёт ноту. Порядок проверок: статус, календарная дата,
// ссылки на проект и контекст, повторяемость, уникальность ID.
func (s *GtdService) Create(ctx context.Context, params CreateParams) (nota.Nota, error) {
	s.mu.Lock()

	status, err := nota.ParseStatus(params.Status)
	if err != nil {
		s.mu.Unlock()
		return nota.Nota{}, NewValidationError("status", err.Error())
	}

	if status == nota.StatusCalendar && params.StartDate == "" {
		s.mu.Unlock()
		return nota.Nota{}, NewValidationError("start_date",
			"статус calendar требует start_date в формате YYYY-MM-DD")
	}

	var startDate *nota.Date
	if params.StartDate != "" {
		d, err := nota.ParseDate(params.StartDate)
		if err != nil {
			s.mu.Unlock()
			return nota.Nota{}, NewValidationError("start_date", err.Error())
		}
		startDate = &d
	}

	if params.Project != "" {
		if _, ok := s.store.FindProject(params.Project); !ok {
			berr := newUnknownProject(params.Project, s.store.ProjectIDs())
			s.mu.Unlock()
			return nota.Nota{}, berr
		}
	}
	if params.Context != "" {
		if _, ok := s.store.FindContext(params.Context); !ok {
			berr := newUnknownContext(params.Context, s.store.ContextNames())
			s.mu.Unlock()
			return nota.Nota{}, berr
		}
	}

	var pattern nota.Pattern
	if params.Recurrence != "" {
		pattern, err = nota.ParsePattern(params.Recurrence)
		if err != nil {
			s.mu.Unlock()
			return nota.Nota{}, NewValidationError("recurrence", err.Error())
		}
		if pattern.RequiresConfig() && params.RecurrenceConfig == "" {
			s.mu.Unlock()
			return nota.Nota{}, NewValidationError("recurrence_config",
				fmt.Sprintf("шаблон '%s' требует recurrence_config", pattern))
		}
	}

	id := strings.TrimSpace(params.ID)
	if id == "" {
		id = s.generateID(status)
	} else if s.store.Contains(id) {
		existing, _ := s.store.StatusOf(id)
		berr := NewDuplicateID(id)
		berr.Details["existing_status"] = string(existing)
		s.mu.Unlock()
		return nota.Nota{}, berr
	}

	today := nota.Today()
	n := nota.Nota{
		ID:                id,
		Title:             params.Title,
		Status:            status,
		Project:           params.Project,
		Context:           params.Context,
		Notes:             params.Notes,
		StartDate:         startDate,
		CreatedAt:         today,
		UpdatedAt:         today,
		RecurrencePattern: pattern,
		RecurrenceConfig:  params.RecurrenceConfig,
	}
	s.store.Add(n)

	data, err := document.Encode(s.store)
	s.mu.Unlock()
	if err != nil {
		return nota.Nota{}, err
	}

	if err := s.persist(data, fmt.Sprintf("Add item %s", id)); err != nil {
		return nota.Nota{}, err
	}

	logger.Info("Service: Нота создана",
		zap.String("id", id),
		zap.String("status", string(status)))
	return n, nil
}

// generateID выдаёт следующий свободный автоматический ID.
// Счётчик растёт на каждую попытку, поэтому занятые значения
// просто пропускаются.
func (s *GtdService) generateID(status nota.Status) string {
	for {
		var id string
		if status == nota.StatusProject {
			id = s.store.NextProjectID()
		} else {
			id = s.store.NextTaskID()
		}
		if !s.store.Contains(id) {
			return id
		}
	}
}

// Get возвращает ноту по ID
func (s *GtdService) Get(ctx context.Context, id string) (nota.Nota, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.store.FindByID(strings.TrimSpace(id))
	if !ok {
		return nota.Nota{}, NewNotFound(id)
	}
	return n, nil
}

// Update изменяет существующую ноту. Опции применяются к копии,
// затем результат проверяется целиком: ссылки на проект и контекст,
// календарное правило. ID ноты неизменяем.
func (s *GtdService) Update(ctx context.Context, id string, opts ...nota.Option) (nota.Nota, error) {
	s.mu.Lock()

	id = strings.TrimSpace(id)
	n, ok := s.store.FindByID(id)
	if !ok {
		s.mu.Unlock()
		return nota.Nota{}, NewNotFound(id)
	}

	for _, opt := range opts {
		opt(&n)
	}
	n.ID = id

	if n.Project != "" {
		if _, ok := s.store.FindProject(n.Project); !ok {
			berr := newUnknownProject(n.Project, s.store.ProjectIDs())
			s.mu.Unlock()
			return nota.Nota{}, berr
		}
	}
	if n.Context != "" {
		if _, ok := s.store.FindContext(n.Context); !ok {
			berr := newUnknownContext(n.Context, s.store.ContextNames())
			s.mu.Unlock()
			return nota.Nota{}, berr
		}
	}
	if n.Status == nota.StatusCalendar && n.StartDate == nil {
		s.mu.Unlock()
		return nota.Nota{}, NewValidationError("start_date",
			"статус calendar требует start_date")
	}

	n.UpdatedAt = nota.Today()
	if _, ok := s.store.Update(id, n); !ok {
		s.mu.Unlock()
		return nota.Nota{}, NewNotFound(id)
	}

	data, err := document.Encode(s.store)
	s.mu.Unlock()
	if err != nil {
		return nota.Nota{}, err
	}

	if err := s.persist(data, fmt.Sprintf("Update item %s", id)); err != nil {
		return nota.Nota{}, err
	}

	logger.Info("Service: Нота обновлена", zap.String("id", id))
	return n, nil
}

// EmptyTrash безвозвратно удаляет все ноты со статусом trash
// и возвращает их количество
func (s *GtdService) EmptyTrash(ctx context.Context) (int, error) {
	s.mu.Lock()
	count := s.store.EmptyTrash()
	if count == 0 {
		s.mu.Unlock()
		return 0, nil
	}

	data, err := document.Encode(s.store)
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}

	if err := s.persist(data, "Empty trash"); err != nil {
		return 0, err
	}

	logger.Info("Service: Корзина очищена", zap.Int("deleted", count))
	return count, nil
}

// HealthCheck сообщает, что сервис жив, и сколько нот загружено
func (s *GtdService) HealthCheck(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

// persist пишет готовые байты документа на диск и синхронизирует с git.
// Ошибка синхронизации не фатальна: локальные данные уже сохранены,
// поэтому она только логируется.
func (s *GtdService) persist(data []byte, message string) error {
	if err := s.persistence.Write(data); err != nil {
		return fmt.Errorf("сохранение файла данных: %w", err)
	}
	if s.syncer != nil {
		if err := s.syncer.Sync(s.persistence.Path(), message); err != nil {
			logger.Warn("Service: Git-синхронизация не удалась",
				zap.String("message", message),
				zap.Error(err))
		}
	}
	return nil
}
