package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"followupTracker/internal/dashboard"
	"followupTracker/internal/handlers/dto"
	"followupTracker/internal/logger"
	"followupTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
	Location    *time.Location
}

func NewTaskHandler(taskService Service, loc *time.Location) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
		Location:    loc,
	}
}

// CreateTask - POST /create-task.
// Порядок ответов зафиксирован контрактом: 405 для не-POST, 400 на валидацию,
// 500 с непрозрачным сообщением на всё остальное
func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if r.Method != http.MethodPost {

		logger.Warn("HTTP: Неверный метод",
			zap.String("expected", "POST"),
			zap.String("received", r.Method),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {

		logger.Error("HTTP: ошибка чтения JSON", err,
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("HTTP: Вызов сервиса создания задач")
	id, err := s.TaskService.CreateTask(r.Context(), service.CreateTaskInput{
		ApplicationID: request.ApplicationID,
		TaskType:      request.TaskType,
		DueAt:         request.DueAt,
		Title:         request.Title,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("success", true),
		toPayload("task_id", id),
	)
}

// GetTasks - GET /tasks?date=YYYY-MM-DD либо ?from=&to= (RFC 3339).
// Окно всегда [from, to), сортировка по возрастанию due_at
func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	from, to, err := s.parseWindow(r)
	if err != nil {

		logger.Warn("HTTP: Ошибка получения параметров окна",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid date window")
		return
	}

	logger.Info("HTTP: Вызов сервиса для получения задач")

	tasks, err := s.TaskService.GetTasksDueBetween(r.Context(), from, to)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err)
		responseWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks)))
}

// CompleteTask - POST /tasks/{id}/complete, единственная мутация задачи.
// Переход односторонний, повторное завершение отвечает 200 без изменений
func (s *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {

		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if id == uuid.Nil {

		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	logger.Info("HTTP: Вызов сервиса завершения задачи")

	if err := s.TaskService.CompleteTask(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}

		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "complete_task"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("HTTP_OUT: Задача завершена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("success", true))
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {

	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func (s *TaskHandler) parseWindow(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()

	if dateParam := query.Get("date"); dateParam != "" {
		day, err := dashboard.ParseDay(dateParam, s.Location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from, to := dashboard.DayWindow(day, s.Location)
		return from, to, nil
	}

	fromParam := query.Get("from")
	toParam := query.Get("to")
	if fromParam != "" && toParam != "" {
		from, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := time.Parse(time.RFC3339, toParam)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to, nil
	}

	// без параметров показываем сегодняшний день
	from, to := dashboard.DayWindow(time.Now().In(s.Location), s.Location)
	return from, to, nil
}
