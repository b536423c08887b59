package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"gtdTracker/internal/models/nota"
)

// migrate собирает единый список нот из исторических форм документа.
// Порядок сборки: задачи по секциям в порядке статусов, затем проекты,
// затем контексты. Проекты и контексты из табличных форм добавляются
// в отсортированном по ключу порядке, чтобы результат был детерминирован.
func migrate(raw *rawDocument) ([]nota.Nota, error) {
	projects, err := normalizeProjects(raw.Projects)
	if err != nil {
		return nil, err
	}
	// списочная форма [[project]] вливается поверх, последний побеждает
	for _, p := range raw.Project {
		projects[p.ID] = p
	}

	contexts := make(map[string]contextRecord, len(raw.Contexts))
	for name, c := range raw.Contexts {
		contexts[name] = c
	}
	for _, c := range raw.Context {
		contexts[c.effectiveName()] = c
	}

	// id проекта и имя контекста живут в ключе таблицы, в самой записи
	// их может не быть - восстанавливаем из ключей
	for id, p := range projects {
		if p.ID == "" {
			p.ID = id
			projects[id] = p
		}
	}
	for name, c := range contexts {
		if c.Name == "" {
			c.Name = name
			contexts[name] = c
		}
	}

	sections := []struct {
		status  nota.Status
		records []taskRecord
	}{
		{nota.StatusInbox, raw.Inbox},
		{nota.StatusNextAction, raw.NextAction},
		{nota.StatusWaitingFor, raw.WaitingFor},
		{nota.StatusLater, raw.Later},
		{nota.StatusCalendar, raw.Calendar},
		{nota.StatusSomeday, raw.Someday},
		{nota.StatusDone, raw.Done},
		{nota.StatusReference, raw.Reference},
		{nota.StatusTrash, raw.Trash},
	}

	var notas []nota.Nota
	for _, sec := range sections {
		for _, t := range sec.records {
			notas = append(notas, t.toNota(sec.status))
		}
	}
	for _, id := range sortedKeysP(projects) {
		notas = append(notas, projects[id].toNota())
	}
	for _, name := range sortedKeysC(contexts) {
		notas = append(notas, contexts[name].toNota())
	}

	for i := range notas {
		notas[i].Notes = normalizeLineEndings(notas[i].Notes)
	}
	return notas, nil
}

// normalizeProjects приводит поле projects к табличной форме. Исторически
// оно записывалось двумя способами: таблица [projects.<id>] с ID в ключе
// и список [[projects]] с ID внутри записи. Форма различима только по
// уже разобранному значению, поэтому поле декодировано в any и здесь
// прогоняется через повторную TOML-сериализацию в типизированную форму.
func normalizeProjects(v any) (map[string]projectRecord, error) {
	result := make(map[string]projectRecord)
	if v == nil {
		return result, nil
	}

	switch v.(type) {
	case map[string]any:
		typed, err := retype[map[string]projectRecord](v)
		if err != nil {
			return nil, fmt.Errorf("разбор таблицы projects: %w", err)
		}
		for id, p := range typed {
			result[id] = p
		}
	case []any:
		typed, err := retype[[]projectRecord](v)
		if err != nil {
			return nil, fmt.Errorf("разбор списка projects: %w", err)
		}
		// при совпадении id последний в списке побеждает
		for _, p := range typed {
			result[p.ID] = p
		}
	default:
		return nil, fmt.Errorf("неожиданная форма поля projects: %T", v)
	}
	return result, nil
}

// retype переводит разобранное в any значение в типизированную форму
// через повторную сериализацию. TOML требует таблицу на верхнем уровне,
// поэтому значение оборачивается в одноимённое поле.
func retype[T any](v any) (T, error) {
	var w struct {
		V T `toml:"v"`
	}
	data, err := toml.Marshal(struct {
		V any `toml:"v"`
	}{V: v})
	if err != nil {
		return w.V, err
	}
	err = toml.Unmarshal(data, &w)
	return w.V, err
}

// normalizeLineEndings приводит переводы строк к LF: сначала CRLF,
// затем одиночные CR. Применяется только при миграции старых документов.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func sortedKeysP(m map[string]projectRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysC(m map[string]contextRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
