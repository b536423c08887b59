package document

import (
	"gtdTracker/internal/models/nota"
)

// Исторические формы записей. Они существуют только как цели
// декодирования старых файлов: ни одна из них не пишется обратно.
// Конвертация в Nota односторонняя.

// taskRecord - запись задачи в посекционных списках ([[inbox]] и т.д.).
// Статус в записи не хранится: принадлежность секции и есть статус,
// он проставляется после декодирования. Встречающийся в записи ключ
// status молча игнорируется.
type taskRecord struct {
	ID        string     `toml:"id"`
	Title     string     `toml:"title"`
	Project   *string    `toml:"project"`
	Context   *string    `toml:"context"`
	Notes     *string    `toml:"notes"`
	StartDate *nota.Date `toml:"start_date"`
	CreatedAt nota.Date  `toml:"created_at"`
	UpdatedAt nota.Date  `toml:"updated_at"`
}

func (r taskRecord) toNota(status nota.Status) nota.Nota {
	return nota.Nota{
		ID:        r.ID,
		Title:     r.Title,
		Status:    status,
		Project:   deref(r.Project),
		Context:   deref(r.Context),
		Notes:     deref(r.Notes),
		StartDate: r.StartDate,
		CreatedAt: dateOrToday(r.CreatedAt),
		UpdatedAt: dateOrToday(r.UpdatedAt),
	}
}

// projectRecord - историческая запись проекта.
// Старые файлы писали name вместо title и description вместо notes;
// оба псевдонима принимаются, но никогда не пишутся обратно.
// Устаревшее поле status (из формата до текущей модели статусов)
// принимается и игнорируется.
type projectRecord struct {
	ID          string     `toml:"id"`
	Title       string     `toml:"title"`
	Name        string     `toml:"name"`
	Notes       *string    `toml:"notes"`
	Description *string    `toml:"description"`
	Project     *string    `toml:"project"`
	Context     *string    `toml:"context"`
	StartDate   *nota.Date `toml:"start_date"`
	CreatedAt   nota.Date  `toml:"created_at"`
	UpdatedAt   nota.Date  `toml:"updated_at"`
	Status      *string    `toml:"status"`
}

func (r projectRecord) effectiveTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

func (r projectRecord) effectiveNotes() string {
	if r.Notes != nil {
		return *r.Notes
	}
	return deref(r.Description)
}

// toNota конвертирует проект: статус принудительно project
func (r projectRecord) toNota() nota.Nota {
	return nota.Nota{
		ID:        r.ID,
		Title:     r.effectiveTitle(),
		Status:    nota.StatusProject,
		Project:   deref(r.Project),
		Context:   deref(r.Context),
		Notes:     r.effectiveNotes(),
		StartDate: r.StartDate,
		CreatedAt: dateOrToday(r.CreatedAt),
		UpdatedAt: dateOrToday(r.UpdatedAt),
	}
}

// contextRecord - историческая запись контекста.
// Имя контекста служит его ID; старые файлы могли писать его в ключе id.
type contextRecord struct {
	Name      string     `toml:"name"`
	ID        string     `toml:"id"`
	Title     *string    `toml:"title"`
	Notes     *string    `toml:"notes"`
	Project   *string    `toml:"project"`
	Context   *string    `toml:"context"`
	StartDate *nota.Date `toml:"start_date"`
	CreatedAt *nota.Date `toml:"created_at"`
	UpdatedAt *nota.Date `toml:"updated_at"`
	Status    *string    `toml:"status"`
}

func (r contextRecord) effectiveName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// toNota конвертирует контекст: статус принудительно context,
// заголовок по умолчанию равен имени
func (r contextRecord) toNota() nota.Nota {
	name := r.effectiveName()
	title := name
	if r.Title != nil && *r.Title != "" {
		title = *r.Title
	}

	created := nota.Today()
	if r.CreatedAt != nil {
		created = *r.CreatedAt
	}
	updated := nota.Today()
	if r.UpdatedAt != nil {
		updated = *r.UpdatedAt
	}

	return nota.Nota{
		ID:        name,
		Title:     title,
		Status:    nota.StatusContext,
		Project:   deref(r.Project),
		Context:   deref(r.Context),
		Notes:     deref(r.Notes),
		StartDate: r.StartDate,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}
