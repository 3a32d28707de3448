package service

import (
	"context"
	"time"

	"followupTracker/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	GetDueBetween(context.Context, time.Time, time.Time) ([]*task.Task, error)
	SetStatus(context.Context, uuid.UUID, task.Status) error
	HealthCheck(context.Context) error
}

// ApplicationRepository отдаёт только tenant_id по id заявки,
// больше ничего про заявки сервису знать не нужно
type ApplicationRepository interface {
	GetTenantID(context.Context, uuid.UUID) (string, error)
}
