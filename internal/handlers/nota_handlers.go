package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gtdTracker/internal/handlers/dto"
	"gtdTracker/internal/logger"
	"gtdTracker/internal/models/nota"
	"gtdTracker/internal/service"
)

type NotaHandler struct {
	GtdService GtdService
}

func NewNotaHandler(gtdService GtdService) NotaHandler {
	return NotaHandler{
		GtdService: gtdService,
	}
}

func (h *NotaHandler) PostNota(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateNotaRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if request.Title == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	logger.Info("HTTP: Вызов сервиса создания ноты")
	created, err := h.GtdService.Create(r.Context(), service.CreateParams{
		ID:               request.ID,
		Title:            request.Title,
		Status:           request.Status,
		Project:          request.Project,
		Context:          request.Context,
		Notes:            request.Notes,
		StartDate:        request.StartDate,
		Recurrence:       request.Recurrence,
		RecurrenceConfig: request.RecurrenceConfig,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_nota"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Нота создана",
		zap.String("nota_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("nota", dto.FromNota(created)))
}

func (h *NotaHandler) GetNotas(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	filter := service.ListFilter{
		Status:  query.Get("status"),
		Date:    query.Get("date"),
		Keyword: query.Get("keyword"),
		Project: query.Get("project"),
		Context: query.Get("context"),
	}
	excludeNotes := query.Get("exclude_notes") == "true"

	logger.Info("HTTP: Вызов сервиса для получения нот")
	notas, err := h.GtdService.List(r.Context(), filter)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_notas"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Ноты получены",
		zap.Int("count", len(notas)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("notas", dto.FromNotaList(notas, excludeNotes)),
		toPayload("count", len(notas)),
	)
}

func (h *NotaHandler) GetNotaByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения ноты")
	found, err := h.GtdService.Get(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка в Service", err,
			zap.String("operation", "get_nota"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Нота получена",
		zap.String("nota_id", found.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("nota", dto.FromNota(found)))
}

func (h *NotaHandler) UpdateNotaByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := chi.URLParam(r, "id")
	if id == "" {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "empty id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return
	}

	var request dto.UpdateNotaRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	opts, err := buildUpdateOptions(request)
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("HTTP: запрос к сервису обновления ноты")
	updated, err := h.GtdService.Update(r.Context(), id, opts...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_nota"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Нота обновлена",
		zap.String("nota_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("nota", dto.FromNota(updated)))
}

// buildUpdateOptions переводит присланные поля в опции обновления.
// Статус и дата приходят строками и разбираются здесь, остальные
// поля передаются как есть: пустая строка очищает поле.
func buildUpdateOptions(request dto.UpdateNotaRequest) ([]nota.Option, error) {
	var opts []nota.Option

	if request.Title != nil {
		opts = append(opts, nota.WithTitle(*request.Title))
	}
	if request.Status != nil {
		status, err := nota.ParseStatus(*request.Status)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nota.WithStatus(status))
	}
	if request.Project != nil {
		opts = append(opts, nota.WithProject(*request.Project))
	}
	if request.Context != nil {
		opts = append(opts, nota.WithContext(*request.Context))
	}
	if request.Notes != nil {
		opts = append(opts, nota.WithNotes(*request.Notes))
	}
	if request.StartDate != nil {
		if *request.StartDate == "" {
			opts = append(opts, nota.WithStartDate(nil))
		} else {
			d, err := nota.ParseDate(*request.StartDate)
			if err != nil {
				return nil, err
			}
			opts = append(opts, nota.WithStartDate(&d))
		}
	}
	return opts, nil
}

func (h *NotaHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	logger.Info("HTTP: Вызов сервиса смены статусов",
		zap.Int("ids", len(request.IDs)),
		zap.String("status", request.Status))

	result, err := h.GtdService.ChangeStatus(r.Context(), request.IDs, request.Status, request.StartDate)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "change_status"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Статусы изменены",
		zap.Int("succeeded", len(result.Successes)),
		zap.Int("failed", len(result.Failures)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("result", dto.FromChangeStatusResult(result)))
}

func (h *NotaHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	logger.Info("HTTP: Вызов сервиса очистки корзины")
	deleted, err := h.GtdService.EmptyTrash(r.Context())
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "empty_trash"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Корзина очищена",
		zap.Int("deleted", deleted),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("deleted", deleted))
}

func (h *NotaHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	count := h.GtdService.HealthCheck(r.Context())
	responseWithJSON(w, http.StatusOK,
		toPayload("service", "gtd-tracker"),
		toPayload("status", "ok"),
		toPayload("notas", count),
	)
}
