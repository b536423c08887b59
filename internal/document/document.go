// Package document реализует кодек файла данных GTD: сериализацию
// текущего формата и декодирование всех исторических форм с миграцией
// к текущей схеме в памяти.
package document

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/store"
)

// FormatVersion - текущая версия формата файла данных.
// Версия в файле читается, но форму исторического документа определяет
// само содержимое; в памяти данные всегда нормализованы к текущей схеме,
// обратно старые форматы никогда не пишутся.
const FormatVersion = 3

// documentRecord - форма файла данных на запись: одна секция-массив на
// статус в фиксированном порядке. Скалярные поля (версия, счётчики)
// кодировщик выносит в начало файла, до первой секции.
type documentRecord struct {
	FormatVersion  int          `toml:"format_version"`
	TaskCounter    *uint32      `toml:"task_counter,omitempty"`
	ProjectCounter *uint32      `toml:"project_counter,omitempty"`
	Inbox          []notaRecord `toml:"inbox,omitempty"`
	NextAction     []notaRecord `toml:"next_action,omitempty"`
	WaitingFor     []notaRecord `toml:"waiting_for,omitempty"`
	Later          []notaRecord `toml:"later,omitempty"`
	Calendar       []notaRecord `toml:"calendar,omitempty"`
	Someday        []notaRecord `toml:"someday,omitempty"`
	Done           []notaRecord `toml:"done,omitempty"`
	Reference      []notaRecord `toml:"reference,omitempty"`
	Context        []notaRecord `toml:"context,omitempty"`
	Project        []notaRecord `toml:"project,omitempty"`
	Trash          []notaRecord `toml:"trash,omitempty"`
}

func (d *documentRecord) section(status nota.Status) *[]notaRecord {
	switch status {
	case nota.StatusInbox:
		return &d.Inbox
	case nota.StatusNextAction:
		return &d.NextAction
	case nota.StatusWaitingFor:
		return &d.WaitingFor
	case nota.StatusLater:
		return &d.Later
	case nota.StatusCalendar:
		return &d.Calendar
	case nota.StatusSomeday:
		return &d.Someday
	case nota.StatusDone:
		return &d.Done
	case nota.StatusReference:
		return &d.Reference
	case nota.StatusContext:
		return &d.Context
	case nota.StatusProject:
		return &d.Project
	case nota.StatusTrash:
		return &d.Trash
	}
	return nil
}

// Encode сериализует хранилище в текущий формат: ноты группируются по
// статусу, секции идут в фиксированном порядке, пустые секции и нулевые
// счётчики опускаются. Порядок нот внутри секции - порядок вставки.
func Encode(s *store.Store) ([]byte, error) {
	doc := documentRecord{FormatVersion: FormatVersion}

	for _, status := range nota.SectionOrder {
		group := s.ListByStatus(status)
		if len(group) == 0 {
			continue
		}
		records := make([]notaRecord, len(group))
		for i, n := range group {
			records[i] = recordFromNota(n)
		}
		*doc.section(status) = records
	}

	taskCounter, projectCounter := s.Counters()
	if taskCounter != 0 {
		doc.TaskCounter = &taskCounter
	}
	if projectCounter != 0 {
		doc.ProjectCounter = &projectCounter
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("сериализация файла данных: %w", err)
	}
	return data, nil
}

// rawDocument - сырая форма на чтение, покрывающая сразу все
// исторические формы. Какие поля окажутся заполнены, зависит от
// версии документа; недостающие остаются пустыми.
type rawDocument struct {
	FormatVersion int `toml:"format_version"`

	// посекционные списки задач (форматы 2-3 и текущая запись)
	Inbox      []taskRecord `toml:"inbox"`
	NextAction []taskRecord `toml:"next_action"`
	WaitingFor []taskRecord `toml:"waiting_for"`
	Later      []taskRecord `toml:"later"`
	Calendar   []taskRecord `toml:"calendar"`
	Someday    []taskRecord `toml:"someday"`
	Done       []taskRecord `toml:"done"`
	Reference  []taskRecord `toml:"reference"`
	Trash      []taskRecord `toml:"trash"`

	// projects: либо таблица с ID в ключе ([projects.<id>], формат 2+),
	// либо список с ID внутри записи ([[projects]], формат 1) -
	// форма определяется по факту, поэтому поле декодируется отложенно
	Projects any                      `toml:"projects"`
	Contexts map[string]contextRecord `toml:"contexts"`

	// списочные формы формата 3
	Project []projectRecord `toml:"project"`
	Context []contextRecord `toml:"context"`

	// единый список - документу миграция не нужна
	Notas []notaRecord `toml:"notas"`

	TaskCounter    uint32 `toml:"task_counter"`
	ProjectCounter uint32 `toml:"project_counter"`
}

// Decode разбирает байты документа в хранилище. Сначала пробуем единый
// список notas: если он непуст, миграция не нужна. Иначе документ
// проходит через миграцию исторических форм. Индекс дубликатов
// перестраивается из собранной последовательности в store.Restore.
func Decode(data []byte) (*store.Store, error) {
	var raw rawDocument
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("разбор TOML: %w", err)
	}

	var notas []nota.Nota
	if len(raw.Notas) > 0 {
		notas = make([]nota.Nota, 0, len(raw.Notas))
		for _, r := range raw.Notas {
			n, err := r.toNota()
			if err != nil {
				return nil, fmt.Errorf("запись notas '%s': %w", r.ID, err)
			}
			notas = append(notas, n)
		}
	} else {
		var err error
		notas, err = migrate(&raw)
		if err != nil {
			return nil, err
		}
	}

	return store.Restore(notas, raw.TaskCounter, raw.ProjectCounter), nil
}
