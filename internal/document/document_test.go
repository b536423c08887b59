package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/store"
)

var dateComparer = cmp.Comparer(func(a, b nota.Date) bool {
	return a.Equal(b)
})

func date(s string) nota.Date {
	d, err := nota.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *nota.Date {
	d := date(s)
	return &d
}

// TestDecode_UnifiedNotas тестирует чтение единого списка notas:
// миграция не выполняется, поля повторения сохраняются
func TestDecode_UnifiedNotas(t *testing.T) {
	data := `format_version = 3
task_counter = 5
project_counter = 1

[[notas]]
id = "water-plants"
title = "Полить цветы"
status = "calendar"
start_date = "2025-03-15"
created_at = "2025-03-01"
updated_at = "2025-03-01"
recurrence_pattern = "weekly"
recurrence_config = "Monday,Friday"

[[notas]]
id = "project-1"
title = "Ремонт"
status = "project"
created_at = "2025-02-01"
updated_at = "2025-02-10"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, 2, st.Len())
	tc, pc := st.Counters()
	assert.Equal(t, uint32(5), tc)
	assert.Equal(t, uint32(1), pc)

	n, ok := st.FindByID("water-plants")
	require.True(t, ok)
	assert.Equal(t, nota.StatusCalendar, n.Status)
	assert.Equal(t, nota.Weekly, n.RecurrencePattern)
	assert.Equal(t, "Monday,Friday", n.RecurrenceConfig)
	require.NotNil(t, n.StartDate)
	assert.Equal(t, "2025-03-15", n.StartDate.String())

	p, ok := st.FindProject("project-1")
	require.True(t, ok)
	assert.Equal(t, "Ремонт", p.Title)
}

// TestDecode_StatusStamping тестирует посекционный формат:
// статус задаётся принадлежностью секции
func TestDecode_StatusStamping(t *testing.T) {
	data := `format_version = 2

[[inbox]]
id = "#1"
title = "Разобрать почту"
created_at = "2025-01-10"
updated_at = "2025-01-10"

[[next_action]]
id = "#2"
title = "Позвонить в банк"
created_at = "2025-01-10"
updated_at = "2025-01-11"

[[done]]
id = "#3"
title = "Сделано"
created_at = "2025-01-01"
updated_at = "2025-01-05"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 3, st.Len())

	for id, want := range map[string]nota.Status{
		"#1": nota.StatusInbox,
		"#2": nota.StatusNextAction,
		"#3": nota.StatusDone,
	} {
		status, ok := st.StatusOf(id)
		require.True(t, ok, id)
		assert.Equal(t, want, status, id)
	}
}

// TestDecode_V1ProjectsList тестирует самый старый формат:
// projects как список с ID внутри записи и полем name вместо title
func TestDecode_V1ProjectsList(t *testing.T) {
	data := `format_version = 1

[[inbox]]
id = "#1"
title = "Первая задача"
project = "house"
created_at = "2024-06-01"
updated_at = "2024-06-01"

[[projects]]
id = "house"
name = "Дом"
description = "Всё по дому"
created_at = "2024-05-01"
updated_at = "2024-05-01"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len())

	p, ok := st.FindProject("house")
	require.True(t, ok)
	assert.Equal(t, "Дом", p.Title, "name принимается как псевдоним title")
	assert.Equal(t, "Всё по дому", p.Notes, "description принимается как псевдоним notes")
	assert.Equal(t, nota.StatusProject, p.Status)

	task, ok := st.FindByID("#1")
	require.True(t, ok)
	assert.Equal(t, "house", task.Project)
}

// TestDecode_ProjectsMapKeyed тестирует табличную форму projects и contexts:
// ID и имя живут в ключе таблицы и восстанавливаются из него
func TestDecode_ProjectsMapKeyed(t *testing.T) {
	data := `format_version = 2

[projects.renovation]
title = "Ремонт"
created_at = "2025-01-01"
updated_at = "2025-01-01"

[contexts."@home"]
created_at = "2025-01-01"
updated_at = "2025-01-01"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)

	p, ok := st.FindProject("renovation")
	require.True(t, ok)
	assert.Equal(t, "Ремонт", p.Title)

	c, ok := st.FindContext("@home")
	require.True(t, ok)
	assert.Equal(t, "@home", c.ID, "имя контекста восстановлено из ключа")
	assert.Equal(t, "@home", c.Title, "заголовок по умолчанию равен имени")
}

// TestDecode_ProjectMergeLastWins тестирует слияние форм projects:
// дубликаты в списке и списочная форма project перекрывают друг друга,
// последняя запись побеждает
func TestDecode_ProjectMergeLastWins(t *testing.T) {
	data := `format_version = 3

[[projects]]
id = "p1"
title = "Старое название"
created_at = "2025-01-01"
updated_at = "2025-01-01"

[[projects]]
id = "p1"
title = "Новее"
created_at = "2025-01-02"
updated_at = "2025-01-02"

[[project]]
id = "p1"
title = "Самое новое"
created_at = "2025-01-03"
updated_at = "2025-01-03"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())

	p, ok := st.FindProject("p1")
	require.True(t, ok)
	assert.Equal(t, "Самое новое", p.Title)
}

// TestDecode_DefunctStatusIgnored тестирует устаревшее поле status
// в записях проектов: оно принимается и игнорируется
func TestDecode_DefunctStatusIgnored(t *testing.T) {
	data := `format_version = 1

[[projects]]
id = "p1"
name = "Проект"
status = "active"
created_at = "2024-01-01"
updated_at = "2024-01-01"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)

	p, ok := st.FindProject("p1")
	require.True(t, ok)
	assert.Equal(t, nota.StatusProject, p.Status)
}

// TestDecode_LineEndings тестирует нормализацию переводов строк
// в заметках при миграции
func TestDecode_LineEndings(t *testing.T) {
	data := "format_version = 2\n\n" +
		"[[inbox]]\n" +
		"id = \"#1\"\n" +
		"title = \"Задача\"\n" +
		"notes = \"строка1\\r\\nстрока2\\rстрока3\\nстрока4\"\n" +
		"created_at = \"2025-01-01\"\n" +
		"updated_at = \"2025-01-01\"\n"

	st, err := Decode([]byte(data))
	require.NoError(t, err)

	n, ok := st.FindByID("#1")
	require.True(t, ok)
	assert.Equal(t, "строка1\nстрока2\nстрока3\nстрока4", n.Notes)
}

// TestDecode_Errors тестирует жёсткие ошибки декодирования
func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "битый TOML",
			data: "format_version = [[[",
		},
		{
			name: "неизвестный статус в notas",
			data: `[[notas]]
id = "#1"
title = "x"
status = "archived"
created_at = "2025-01-01"
updated_at = "2025-01-01"
`,
		},
		{
			name: "неизвестный паттерн повторения в notas",
			data: `[[notas]]
id = "#1"
title = "x"
status = "inbox"
recurrence_pattern = "hourly"
created_at = "2025-01-01"
updated_at = "2025-01-01"
`,
		},
		{
			name: "битая дата",
			data: `[[inbox]]
id = "#1"
title = "x"
created_at = "не дата"
updated_at = "2025-01-01"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

// TestDecode_Empty тестирует пустой документ
func TestDecode_Empty(t *testing.T) {
	st, err := Decode([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 0, st.Len())
}

// TestEncode_SectionOrder тестирует фиксированный порядок секций
// и расположение счётчиков до первой секции
func TestEncode_SectionOrder(t *testing.T) {
	st := store.New()
	// вставляем нарочно не по порядку секций
	for _, item := range []struct {
		id     string
		status nota.Status
	}{
		{"t-trash", nota.StatusTrash},
		{"project-1", nota.StatusProject},
		{"@home", nota.StatusContext},
		{"t-done", nota.StatusDone},
		{"t-ref", nota.StatusReference},
		{"t-someday", nota.StatusSomeday},
		{"t-cal", nota.StatusCalendar},
		{"t-later", nota.StatusLater},
		{"t-wait", nota.StatusWaitingFor},
		{"t-next", nota.StatusNextAction},
		{"t-inbox", nota.StatusInbox},
	} {
		st.Add(nota.Nota{
			ID:        item.id,
			Title:     "нота " + item.id,
			Status:    item.status,
			CreatedAt: date("2025-01-01"),
			UpdatedAt: date("2025-01-01"),
		})
	}
	st.NextTaskID()

	data, err := Encode(st)
	require.NoError(t, err)
	text := string(data)

	wantOrder := []string{
		"format_version = 3",
		"task_counter = 1",
		"[[inbox]]",
		"[[next_action]]",
		"[[waiting_for]]",
		"[[later]]",
		"[[calendar]]",
		"[[someday]]",
		"[[done]]",
		"[[reference]]",
		"[[context]]",
		"[[project]]",
		"[[trash]]",
	}
	pos := -1
	for _, marker := range wantOrder {
		idx := strings.Index(text, marker)
		require.GreaterOrEqual(t, idx, 0, marker)
		assert.Greater(t, idx, pos, "%s должен идти позже предыдущего маркера", marker)
		pos = idx
	}

	// счётчик проектов нулевой и потому отсутствует
	assert.NotContains(t, text, "project_counter")
}

// TestEncode_OmitsEmpty тестирует, что пустые секции и нулевые
// счётчики не пишутся
func TestEncode_OmitsEmpty(t *testing.T) {
	st := store.New()
	st.Add(nota.Nota{
		ID:        "#1",
		Title:     "Единственная",
		Status:    nota.StatusInbox,
		CreatedAt: date("2025-01-01"),
		UpdatedAt: date("2025-01-01"),
	})

	data, err := Encode(st)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "[[inbox]]")
	for _, absent := range []string{
		"[[next_action]]", "[[trash]]", "[[project]]", "[[context]]",
		"task_counter", "project_counter",
		"notes", "start_date", "recurrence",
	} {
		assert.NotContains(t, text, absent)
	}
}

// TestEncodeDecode_RoundTrip тестирует идемпотентность цикла:
// повторное кодирование после декодирования даёт тот же файл байт в байт
func TestEncodeDecode_RoundTrip(t *testing.T) {
	st := store.New()
	st.Add(nota.Nota{
		ID:        "house",
		Title:     "Дом",
		Status:    nota.StatusProject,
		Notes:     "многострочные\nзаметки",
		CreatedAt: date("2025-01-01"),
		UpdatedAt: date("2025-01-02"),
	})
	st.Add(nota.Nota{
		ID:        "@office",
		Title:     "Офис",
		Status:    nota.StatusContext,
		CreatedAt: date("2025-01-01"),
		UpdatedAt: date("2025-01-01"),
	})
	st.Add(nota.Nota{
		ID:        "#1",
		Title:     "Съездить за краской",
		Status:    nota.StatusCalendar,
		Project:   "house",
		Context:   "@office",
		StartDate: datePtr("2025-02-01"),
		CreatedAt: date("2025-01-05"),
		UpdatedAt: date("2025-01-05"),
	})
	st.NextTaskID()

	first, err := Encode(st)
	require.NoError(t, err)

	decoded, err := Decode(first)
	require.NoError(t, err)

	second, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// содержимое после цикла совпадает с исходным
	want := st.ListAll()
	got := decoded.ListAll()
	require.Len(t, got, len(want))
	for _, w := range want {
		g, ok := decoded.FindByID(w.ID)
		require.True(t, ok, w.ID)
		assert.Empty(t, cmp.Diff(w, g, dateComparer), w.ID)
	}
}

// TestEncodeDecode_AllStatuses тестирует сохранность нот каждого
// статуса через полный цикл
func TestEncodeDecode_AllStatuses(t *testing.T) {
	st := store.New()
	created := date("2025-04-01")
	for _, status := range nota.SectionOrder {
		n := nota.Nota{
			ID:        "item-" + string(status),
			Title:     "нота " + string(status),
			Status:    status,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if status == nota.StatusCalendar {
			n.StartDate = datePtr("2025-04-10")
		}
		st.Add(n)
	}

	data, err := Encode(st)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, st.Len(), decoded.Len())
	for _, status := range nota.SectionOrder {
		id := "item-" + string(status)
		got, ok := decoded.StatusOf(id)
		require.True(t, ok, id)
		assert.Equal(t, status, got, id)
	}
}

// TestDecode_MonthRecurrence тестирует сохранность конфигурации
// повторения через единый формат notas и цикл decode-encode-decode
func TestDecode_MonthRecurrence(t *testing.T) {
	data := `[[notas]]
id = "pay-rent"
title = "Заплатить за квартиру"
status = "calendar"
start_date = "2025-10-25"
created_at = "2025-01-01"
updated_at = "2025-01-01"
recurrence_pattern = "monthly"
recurrence_config = "25"
`
	st, err := Decode([]byte(data))
	require.NoError(t, err)

	n, ok := st.FindByID("pay-rent")
	require.True(t, ok)
	next, hasNext := n.NextOccurrence(*n.StartDate)
	require.True(t, hasNext)
	assert.Equal(t, "2025-11-25", next.String())

	// посекционная форма на запись не несёт полей повторения,
	// сериализованный файл содержит их в секции calendar
	encoded, err := Encode(st)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "recurrence_pattern")
	assert.Contains(t, string(encoded), "[[calendar]]")
}
