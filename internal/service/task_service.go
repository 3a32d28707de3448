package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"followupTracker/internal/logger"
	"followupTracker/internal/models/task"
	repo "followupTracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь живут правила создания и жизненного цикла задач

type CreateTaskInput struct {
	ApplicationID string
	TaskType      string
	DueAt         string
	Title         string
}

type TaskService struct {
	tasks        TaskRepository
	applications ApplicationRepository
}

func NewTaskService(tasks TaskRepository, applications ApplicationRepository) TaskService {
	return TaskService{
		tasks:        tasks,
		applications: applications,
	}
}

// CreateTask валидирует запрос строго по шагам и падает на первом нарушении:
// заполненность полей -> перечисление типов -> срок в будущем -> существование заявки.
// tenant_id берётся из найденной заявки, клиентское значение не принимается никогда.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (uuid.UUID, error) {
	if in.ApplicationID == "" || in.TaskType == "" || in.DueAt == "" {
		logger.Warn("Service: Ошибка валидации",
			zap.String("error", "empty_fields"))
		return uuid.Nil, NewValidationError("missing required fields")
	}

	taskType, ok := task.ParseType(in.TaskType)
	if !ok {
		logger.Warn("Service: Ошибка валидации",
			zap.String("field", "task_type"),
			zap.String("received", in.TaskType))
		return uuid.Nil, NewValidationError("invalid task_type",
			ToDetail("task_type", in.TaskType))
	}

	dueAt, err := time.Parse(time.RFC3339, in.DueAt)
	if err != nil || !dueAt.After(time.Now()) {
		logger.Warn("Service: Ошибка валидации",
			zap.String("field", "due_at"),
			zap.String("received", in.DueAt))
		return uuid.Nil, NewValidationError("due_at must be a valid future timestamp",
			ToDetail("due_at", in.DueAt))
	}

	applicationID, err := uuid.Parse(in.ApplicationID)
	if err != nil {
		logger.Warn("Service: Неверный формат application_id",
			zap.String("received", in.ApplicationID))
		return uuid.Nil, NewReferenceError(err)
	}

	tenantID, err := s.applications.GetTenantID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("Service: Заявка не найдена",
				zap.String("application_id", applicationID.String()))
		} else {
			logger.Error("Service: Ошибка поиска заявки", err,
				zap.String("application_id", applicationID.String()))
		}
		return uuid.Nil, NewReferenceError(err)
	}

	newTask := &task.Task{
		ApplicationID: applicationID,
		TenantID:      tenantID,
		Type:          taskType,
		Status:        task.StatusOpen,
		DueAt:         dueAt,
		Title:         in.Title,
	}

	if err := s.tasks.Create(ctx, newTask); err != nil {
		logger.Error("Service: Не удалось сохранить задачу", err,
			zap.String("application_id", applicationID.String()))
		return uuid.Nil, NewStorageError("Failed to create task", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.String("type", string(taskType)))

	return newTask.ID, nil
}

// GetTasksDueBetween отдаёт задачи окна [from, to) по возрастанию due_at
func (s *TaskService) GetTasksDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	if !to.After(from) {
		return nil, NewValidationError("invalid date range",
			ToDetail("from", from),
			ToDetail("to", to),
		)
	}

	tasks, err := s.tasks.GetDueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	return tasks, nil
}

// CompleteTask - единственный переход статуса, open -> completed.
// Повторный вызов по той же задаче не ошибка, состояние не меняется
func (s *TaskService) CompleteTask(ctx context.Context, id uuid.UUID) error {
	err := s.tasks.SetStatus(ctx, id, task.StatusCompleted)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(id.String())
		}
		logger.Error("Service: Не удалось обновить статус", err,
			zap.String("target_id", id.String()))
		return NewStorageError("Failed to update task", err)
	}

	logger.Info("Service: Задача завершена", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.tasks.HealthCheck(ctx)
}
