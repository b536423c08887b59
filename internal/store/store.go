package store

import (
	"fmt"

	"gtdTracker/internal/models/nota"
)

// Store - хранилище нот в памяти.
//
// Основное хранилище - слайс: он сохраняет порядок вставки, что даёт
// предсказуемую сериализацию и стабильные диффы файла под git.
// Рядом живёт индекс ID -> статус для O(1) проверки дубликатов и ссылок.
// Индекс - производный кеш, а не источник истины: он перестраивается из
// слайса при загрузке и обновляется вместе со слайсом в каждой мутации.
//
// Store не блокируется сам: единственный мьютекс держит сервисный слой.
// Store также не проверяет инварианты (уникальность ID, валидность ссылок,
// обязательную дату для calendar) - это ответственность вызывающего,
// который может составить осмысленное сообщение об ошибке.
type Store struct {
	notas []nota.Nota
	index map[string]nota.Status

	taskCounter    uint32
	projectCounter uint32
}

// New создаёт пустое хранилище
func New() *Store {
	return &Store{
		notas: []nota.Nota{},
		index: make(map[string]nota.Status),
	}
}

// Restore собирает хранилище из последовательности нот и счётчиков,
// перестраивая индекс. Используется при декодировании файла данных.
func Restore(notas []nota.Nota, taskCounter, projectCounter uint32) *Store {
	s := &Store{
		notas:          notas,
		index:          make(map[string]nota.Status, len(notas)),
		taskCounter:    taskCounter,
		projectCounter: projectCounter,
	}
	for _, n := range notas {
		s.index[n.ID] = n.Status
	}
	return s
}

// Add добавляет ноту в конец последовательности и в индекс.
// Уникальность ID здесь намеренно не проверяется: вызывающий обязан
// проверить Contains заранее, чтобы вернуть точную ошибку дубликата.
func (s *Store) Add(n nota.Nota) {
	s.index[n.ID] = n.Status
	s.notas = append(s.notas, n)
}

// Contains сообщает, занят ли ID (любым типом ноты)
func (s *Store) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// StatusOf возвращает статус ноты по индексу
func (s *Store) StatusOf(id string) (nota.Status, bool) {
	status, ok := s.index[id]
	return status, ok
}

// FindByID ищет ноту линейным проходом; для ожидаемых масштабов
// (сотни нот) этого достаточно
func (s *Store) FindByID(id string) (nota.Nota, bool) {
	for _, n := range s.notas {
		if n.ID == id {
			return n, true
		}
	}
	return nota.Nota{}, false
}

// Remove удаляет ноту из последовательности и индекса и возвращает её
func (s *Store) Remove(id string) (nota.Nota, bool) {
	for i, n := range s.notas {
		if n.ID == id {
			s.notas = append(s.notas[:i], s.notas[i+1:]...)
			delete(s.index, id)
			return n, true
		}
	}
	return nota.Nota{}, false
}

// Update заменяет ноту с данным ID и возвращает старое значение.
// Реализована как удаление плюс добавление в конец: обновлённая нота
// перемещается в конец порядка вставки. Это сознательно сохранённое
// поведение, а не ошибка.
func (s *Store) Update(id string, n nota.Nota) (nota.Nota, bool) {
	for i, old := range s.notas {
		if old.ID == id {
			s.notas = append(s.notas[:i], s.notas[i+1:]...)
			s.notas = append(s.notas, n)
			delete(s.index, id)
			s.index[n.ID] = n.Status
			return old, true
		}
	}
	return nota.Nota{}, false
}

// MoveStatus меняет статус ноты на месте, обновляя updated_at и индекс.
// Возвращает false, если ноты с таким ID нет.
func (s *Store) MoveStatus(id string, status nota.Status) bool {
	for i := range s.notas {
		if s.notas[i].ID == id {
			s.notas[i].Status = status
			s.notas[i].UpdatedAt = nota.Today()
			s.index[id] = status
			return true
		}
	}
	return false
}

// ReferencedBy возвращает ID нот, ссылающихся на данный ID в полях
// project или context, в порядке вставки. Используется как защита
// перед переносом в корзину: список попадает в сообщение об ошибке.
func (s *Store) ReferencedBy(id string) []string {
	var refs []string
	for _, n := range s.notas {
		if n.Project == id || n.Context == id {
			refs = append(refs, n.ID)
		}
	}
	return refs
}

// IsReferenced сообщает, ссылается ли какая-нибудь нота на данный ID
func (s *Store) IsReferenced(id string) bool {
	return len(s.ReferencedBy(id)) > 0
}

// FindProject ищет ноту-проект по ID
func (s *Store) FindProject(id string) (nota.Nota, bool) {
	for _, n := range s.notas {
		if n.ID == id && n.Status == nota.StatusProject {
			return n, true
		}
	}
	return nota.Nota{}, false
}

// FindContext ищет ноту-контекст по имени (имя контекста служит его ID)
func (s *Store) FindContext(name string) (nota.Nota, bool) {
	for _, n := range s.notas {
		if n.ID == name && n.Status == nota.StatusContext {
			return n, true
		}
	}
	return nota.Nota{}, false
}

// ValidateProjectRef проверяет, что ссылка на проект разрешается
// в существующую ноту-проект; пустая ссылка валидна
func (s *Store) ValidateProjectRef(id string) bool {
	if id == "" {
		return true
	}
	_, ok := s.FindProject(id)
	return ok
}

// ValidateContextRef проверяет, что ссылка на контекст разрешается
// в существующую ноту-контекст; пустая ссылка валидна
func (s *Store) ValidateContextRef(name string) bool {
	if name == "" {
		return true
	}
	_, ok := s.FindContext(name)
	return ok
}

// ListAll возвращает копию всех нот в порядке вставки
func (s *Store) ListAll() []nota.Nota {
	result := make([]nota.Nota, len(s.notas))
	copy(result, s.notas)
	return result
}

// ListByStatus возвращает ноты с данным статусом, сохраняя порядок вставки
func (s *Store) ListByStatus(status nota.Status) []nota.Nota {
	result := []nota.Nota{}
	for _, n := range s.notas {
		if n.Status == status {
			result = append(result, n)
		}
	}
	return result
}

// ProjectIDs возвращает ID всех проектов (для сообщений об ошибках)
func (s *Store) ProjectIDs() []string {
	ids := []string{}
	for _, n := range s.notas {
		if n.Status == nota.StatusProject {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// ContextNames возвращает имена всех контекстов (для сообщений об ошибках)
func (s *Store) ContextNames() []string {
	names := []string{}
	for _, n := range s.notas {
		if n.Status == nota.StatusContext {
			names = append(names, n.ID)
		}
	}
	return names
}

// EmptyTrash удаляет все ноты со статусом trash из последовательности
// и индекса, возвращает количество удалённых
func (s *Store) EmptyTrash() int {
	kept := s.notas[:0]
	removed := 0
	for _, n := range s.notas {
		if n.Status == nota.StatusTrash {
			delete(s.index, n.ID)
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.notas = kept
	return removed
}

// Len возвращает общее количество нот
func (s *Store) Len() int {
	return len(s.notas)
}

// IndexLen возвращает размер индекса (в норме равен Len)
func (s *Store) IndexLen() int {
	return len(s.index)
}

// Counters возвращает счётчики задач и проектов
func (s *Store) Counters() (taskCounter, projectCounter uint32) {
	return s.taskCounter, s.projectCounter
}

// NextTaskID генерирует следующий ID задачи вида "#N"
func (s *Store) NextTaskID() string {
	s.taskCounter++
	return fmt.Sprintf("#%d", s.taskCounter)
}

// NextProjectID генерирует следующий ID проекта вида "project-N"
func (s *Store) NextProjectID() string {
	s.projectCounter++
	return fmt.Sprintf("project-%d", s.projectCounter)
}
