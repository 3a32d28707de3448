package dto

import (
	"time"

	"followupTracker/internal/models/task"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	ApplicationID string `json:"application_id"`
	TaskType      string `json:"task_type"`
	DueAt         string `json:"due_at"`
	Title         string `json:"title,omitempty"`
}

type TaskResponse struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	TenantID      string    `json:"tenant_id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	DueAt         time.Time `json:"due_at"`
	Title         string    `json:"title,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	IsOpen        bool      `json:"is_open"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		ApplicationID: t.ApplicationID,
		TenantID:      t.TenantID,
		Type:          string(t.Type),
		Status:        string(t.Status),
		DueAt:         t.DueAt,
		Title:         t.Title,
		CreatedAt:     t.CreatedAt,
		IsOpen:        t.Status.IsOpen(),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
