package inmemory_test

import (
	"context"
	"testing"
	"time"

	"followupTracker/internal/models/task"
	repo "followupTracker/internal/repository"
	"followupTracker/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(dueAt time.Time) *task.Task {
	return &task.Task{
		ApplicationID: uuid.New(),
		TenantID:      "t1",
		Type:          task.TypeCall,
		Status:        task.StatusOpen,
		DueAt:         dueAt,
	}
}

func TestTaskStorage_CreateAssignsID(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	ctx := context.Background()

	created := newTask(time.Now().Add(time.Hour))
	require.NoError(t, storage.Create(ctx, created))

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTaskStorage_GetByID_NotFound(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	_, err := storage.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// TestTaskStorage_GetDueBetween - окно [from, to): нижняя граница входит,
// верхняя нет, соседние дни не попадают, порядок по возрастанию due_at
func TestTaskStorage_GetDueBetween(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	ctx := context.Background()

	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	before := newTask(dayStart.Add(-time.Minute))  // вчера
	atStart := newTask(dayStart)                   // ровно начало дня, входит
	morning := newTask(dayStart.Add(9 * time.Hour))
	evening := newTask(dayStart.Add(20 * time.Hour))
	atEnd := newTask(dayEnd) // ровно начало следующего дня, не входит

	// специально создаём не по порядку
	for _, taskToCreate := range []*task.Task{evening, before, atEnd, atStart, morning} {
		require.NoError(t, storage.Create(ctx, taskToCreate))
	}

	got, err := storage.GetDueBetween(ctx, dayStart, dayEnd)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, atStart.ID, got[0].ID)
	assert.Equal(t, morning.ID, got[1].ID)
	assert.Equal(t, evening.ID, got[2].ID)
}

func TestTaskStorage_GetDueBetween_Empty(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	got, err := storage.GetDueBetween(context.Background(),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestTaskStorage_SetStatus - переход open -> completed и идемпотентный повтор
func TestTaskStorage_SetStatus(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	ctx := context.Background()

	created := newTask(time.Now().Add(time.Hour))
	require.NoError(t, storage.Create(ctx, created))

	require.NoError(t, storage.SetStatus(ctx, created.ID, task.StatusCompleted))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, got.Status)

	// повторное завершение не ошибка и ничего не меняет
	require.NoError(t, storage.SetStatus(ctx, created.ID, task.StatusCompleted))

	got, err = storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, got.Status)
}

func TestTaskStorage_SetStatus_NotFound(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	err := storage.SetStatus(context.Background(), uuid.New(), task.StatusCompleted)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTaskStorage_GetTenantID(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	ctx := context.Background()

	appID := uuid.New()
	storage.SeedApplication(appID, "t1")

	tenantID, err := storage.GetTenantID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, "t1", tenantID)

	_, err = storage.GetTenantID(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}
