package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"followupTracker/internal/models/task"
	repo "followupTracker/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage держит и задачи, и справочник заявок:
// контракт тот же, что у postgres-хранилища
type TaskStorage struct {
	storage      map[uuid.UUID]*task.Task
	applications map[uuid.UUID]string
	mtx          *sync.RWMutex
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage:      make(map[uuid.UUID]*task.Task),
		applications: make(map[uuid.UUID]string),
		mtx:          &sync.RWMutex{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	return nil
}

// SeedApplication заполняет справочник заявок, заявки здесь никогда не создаются через API
func (s *TaskStorage) SeedApplication(id uuid.UUID, tenantID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.applications[id] = tenantID
}

func (s *TaskStorage) GetTenantID(ctx context.Context, applicationID uuid.UUID) (string, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tenantID, ok := s.applications[applicationID]
	if !ok {
		return "", repo.ErrNotFound
	}
	return tenantID, nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	// id назначает хранилище
	if taskToCreate.ID == uuid.Nil {
		taskToCreate.ID = uuid.New()
	}
	taskToCreate.CreatedAt = time.Now()

	s.storage[taskToCreate.ID] = taskToCreate
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet, nil
}

// GetDueBetween - окно [from, to) по возрастанию due_at
func (s *TaskStorage) GetDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}

	for _, t := range s.storage {
		if t.DueAt.Before(from) || !t.DueAt.Before(to) {
			continue
		}
		res = append(res, t)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].DueAt.Before(res[j].DueAt)
	})

	return res, nil
}

func (s *TaskStorage) SetStatus(ctx context.Context, id uuid.UUID, status task.Status) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToUpdate, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}

	taskToUpdate.Status = status
	return nil
}
