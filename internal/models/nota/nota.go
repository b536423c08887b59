package nota

import "fmt"

// Status - статус ноты в GTD-процессе.
// Статус одновременно определяет и тип ноты: context и project означают,
// что нота представляет контекст или проект, все остальные статусы -
// задачу на соответствующей стадии.
type Status string

const (
	StatusInbox      Status = "inbox"
	StatusNextAction Status = "next_action"
	StatusWaitingFor Status = "waiting_for"
	StatusLater      Status = "later"
	StatusCalendar   Status = "calendar"
	StatusSomeday    Status = "someday"
	StatusDone       Status = "done"
	StatusReference  Status = "reference"
	StatusTrash      Status = "trash"
	StatusContext    Status = "context"
	StatusProject    Status = "project"
)

// TaskStatuses - девять статусов задач в порядке секций файла данных.
// context, project и trash сюда не входят.
var TaskStatuses = []Status{
	StatusInbox,
	StatusNextAction,
	StatusWaitingFor,
	StatusLater,
	StatusCalendar,
	StatusSomeday,
	StatusDone,
	StatusReference,
	StatusTrash,
}

// SectionOrder - фиксированный порядок секций при сериализации.
// Порядок намеренно стабильный, чтобы файл под git давал минимальные диффы.
var SectionOrder = []Status{
	StatusInbox,
	StatusNextAction,
	StatusWaitingFor,
	StatusLater,
	StatusCalendar,
	StatusSomeday,
	StatusDone,
	StatusReference,
	StatusContext,
	StatusProject,
	StatusTrash,
}

const validStatusList = "inbox, next_action, waiting_for, later, calendar, someday, done, reference, trash, context, project"

// ParseStatus разбирает строку статуса
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("неверный статус '%s'. Допустимые статусы: %s", s, validStatusList)
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusInbox, StatusNextAction, StatusWaitingFor, StatusLater,
		StatusCalendar, StatusSomeday, StatusDone, StatusReference,
		StatusTrash, StatusContext, StatusProject:
		return true
	}
	return false
}

// Nota - единая сущность GTD-системы, объединяющая задачи, проекты и
// контексты в одну структуру. Отдельного поля "тип" нет: тип выводится
// из статуса.
type Nota struct {
	// ID - уникальный идентификатор, неизменяемый после создания
	ID string
	// Title - заголовок ноты
	Title string
	// Status - текущий статус (и одновременно тип)
	Status Status
	// Project - необязательная ссылка на ID ноты со статусом project
	Project string
	// Context - необязательная ссылка на ID ноты со статусом context
	Context string
	// Notes - необязательные заметки (Markdown)
	Notes string
	// StartDate - необязательная дата начала (обязательна для calendar)
	StartDate *Date
	// CreatedAt / UpdatedAt - календарные даты без времени
	CreatedAt Date
	UpdatedAt Date
	// RecurrencePattern - необязательное правило повторения
	RecurrencePattern Pattern
	// RecurrenceConfig - конфигурация повторения, формат зависит от паттерна
	RecurrenceConfig string
}

// IsTask сообщает, является ли нота задачей
func (n *Nota) IsTask() bool {
	return n.Status != StatusContext && n.Status != StatusProject
}

func (n *Nota) IsProject() bool {
	return n.Status == StatusProject
}

func (n *Nota) IsContext() bool {
	return n.Status == StatusContext
}

// Kind возвращает человекочитаемый тип ноты для ответов API
func (n *Nota) Kind() string {
	switch n.Status {
	case StatusContext:
		return "context"
	case StatusProject:
		return "project"
	default:
		return "task"
	}
}

// IsRecurring сообщает, настроено ли повторение
func (n *Nota) IsRecurring() bool {
	return n.RecurrencePattern != ""
}
