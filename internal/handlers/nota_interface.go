package handlers

import (
	"context"

	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/service"
)

type GtdService interface {
	Create(context.Context, service.CreateParams) (nota.Nota, error)
	Get(context.Context, string) (nota.Nota, error)
	List(context.Context, service.ListFilter) ([]nota.Nota, error)
	Update(context.Context, string, ...nota.Option) (nota.Nota, error)
	ChangeStatus(context.Context, []string, string, string) (service.ChangeStatusResult, error)
	EmptyTrash(context.Context) (int, error)
	HealthCheck(context.Context) int
}
