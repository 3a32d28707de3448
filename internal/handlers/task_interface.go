package handlers

import (
	"context"
	"time"

	"followupTracker/internal/models/task"
	"followupTracker/internal/service"

	"github.com/google/uuid"
)

type Service interface {
	CreateTask(context.Context, service.CreateTaskInput) (uuid.UUID, error)
	GetTasksDueBetween(context.Context, time.Time, time.Time) ([]*task.Task, error)
	CompleteTask(context.Context, uuid.UUID) error
	HealthCheck(context.Context) error
}
