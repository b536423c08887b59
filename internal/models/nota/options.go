package nota

// Option - функция частичного обновления ноты.
// Обработчик собирает набор опций из переданных полей запроса,
// сервис применяет их к копии ноты и валидирует результат.
// Пустая строка в опциях ссылочных полей означает "очистить поле".
type Option func(*Nota)

func WithTitle(title string) Option {
	return func(n *Nota) {
		n.Title = title
	}
}

func WithStatus(status Status) Option {
	return func(n *Nota) {
		n.Status = status
	}
}

func WithProject(project string) Option {
	return func(n *Nota) {
		n.Project = project
	}
}

func WithContext(context string) Option {
	return func(n *Nota) {
		n.Context = context
	}
}

func WithNotes(notes string) Option {
	return func(n *Nota) {
		n.Notes = notes
	}
}

// WithStartDate задаёт дату начала; nil очищает её
func WithStartDate(date *Date) Option {
	return func(n *Nota) {
		n.StartDate = date
	}
}
