package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gtdTracker/internal/logger"
	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/service"
)

// Lister - выборка нот, worker читает и ничего не меняет
type Lister interface {
	List(context.Context, service.ListFilter) ([]nota.Nota, error)
}

// AgendaWorker периодически логирует повестку дня: календарные ноты,
// наступившие к сегодняшней дате. Чисто диагностический фон, чтобы в
// логах сервера было видно, что накопилось к текущему дню.
type AgendaWorker struct {
	lister   Lister
	interval time.Duration
}

func NewAgendaWorker(lister Lister, interval time.Duration) *AgendaWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AgendaWorker{
		lister:   lister,
		interval: interval,
	}
}

func (w *AgendaWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Проверка повестки дня", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Проверка повестки останавливается")
			return
		}
	}
}

func (w *AgendaWorker) Check(ctx context.Context) {
	start := time.Now()
	today := nota.Today()

	due, err := w.lister.List(ctx, service.ListFilter{
		Status: string(nota.StatusCalendar),
		Date:   today.String(),
	})
	if err != nil {
		logger.Warn("Worker: ошибка получения календарных нот", zap.Error(err))
		return
	}

	for _, n := range due {
		logger.Info("Worker: Нота в повестке",
			zap.String("id", n.ID),
			zap.String("title", n.Title))
	}

	logger.Info("Worker: Завершение проверки повестки",
		zap.Duration("ms", time.Since(start)),
		zap.Int("due_today", len(due)),
	)
}
