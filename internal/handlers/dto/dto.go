package dto

import (
	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/service"
)

type CreateNotaRequest struct {
	ID               string `json:"id,omitempty"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	Project          string `json:"project,omitempty"`
	Context          string `json:"context,omitempty"`
	Notes            string `json:"notes,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	Recurrence       string `json:"recurrence,omitempty"`
	RecurrenceConfig string `json:"recurrence_config,omitempty"`
}

// UpdateNotaRequest - частичное обновление: nil-поле не трогается,
// пустая строка очищает необязательное поле
type UpdateNotaRequest struct {
	Title     *string `json:"title,omitempty"`
	Status    *string `json:"status,omitempty"`
	Project   *string `json:"project,omitempty"`
	Context   *string `json:"context,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
}

type ChangeStatusRequest struct {
	IDs       []string `json:"ids"`
	Status    string   `json:"status"`
	StartDate string   `json:"start_date,omitempty"`
}

type NotaResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	Kind             string `json:"kind"`
	Project          string `json:"project,omitempty"`
	Context          string `json:"context,omitempty"`
	Notes            string `json:"notes,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	Recurrence       string `json:"recurrence,omitempty"`
	RecurrenceConfig string `json:"recurrence_config,omitempty"`
}

func FromNota(n nota.Nota) NotaResponse {
	resp := NotaResponse{
		ID:               n.ID,
		Title:            n.Title,
		Status:           string(n.Status),
		Kind:             n.Kind(),
		Project:          n.Project,
		Context:          n.Context,
		Notes:            n.Notes,
		CreatedAt:        n.CreatedAt.String(),
		UpdatedAt:        n.UpdatedAt.String(),
		Recurrence:       string(n.RecurrencePattern),
		RecurrenceConfig: n.RecurrenceConfig,
	}
	if n.StartDate != nil {
		resp.StartDate = n.StartDate.String()
	}
	return resp
}

// FromNotaList конвертирует выборку; excludeNotes убирает заметки
// из ответа, чтобы не раздувать списки
func FromNotaList(notas []nota.Nota, excludeNotes bool) []NotaResponse {
	result := make([]NotaResponse, len(notas))
	for i, n := range notas {
		result[i] = FromNota(n)
		if excludeNotes {
			result[i].Notes = ""
		}
	}
	return result
}

type StatusChangeResponse struct {
	ID               string `json:"id"`
	OldStatus        string `json:"old_status"`
	NewStatus        string `json:"new_status"`
	NextOccurrenceID string `json:"next_occurrence_id,omitempty"`
}

type ChangeFailureResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type ChangeStatusResponse struct {
	Successes []StatusChangeResponse  `json:"successes"`
	Failures  []ChangeFailureResponse `json:"failures,omitempty"`
}

func FromChangeStatusResult(r service.ChangeStatusResult) ChangeStatusResponse {
	resp := ChangeStatusResponse{
		Successes: make([]StatusChangeResponse, len(r.Successes)),
	}
	for i, s := range r.Successes {
		resp.Successes[i] = StatusChangeResponse{
			ID:               s.ID,
			OldStatus:        string(s.OldStatus),
			NewStatus:        string(s.NewStatus),
			NextOccurrenceID: s.NextOccurrenceID,
		}
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, ChangeFailureResponse{ID: f.ID, Reason: f.Reason})
	}
	return resp
}
