package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"followupTracker/internal/logger"
	"followupTracker/internal/models/task"
	repo "followupTracker/internal/repository"
	"followupTracker/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(false)
	defer logger.Sync()
	os.Exit(m.Run())
}

// MockTaskRepository - мок хранилища задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) SetStatus(ctx context.Context, id uuid.UUID, status task.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockApplicationRepository - мок справочника заявок
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) GetTenantID(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

var _ service.ApplicationRepository = (*MockApplicationRepository)(nil)

func businessCode(t *testing.T, err error) string {
	t.Helper()

	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	return businessErr.Code
}

// TestTaskService_CreateTask проверяет последовательность валидации:
// заполненность -> перечисление -> срок -> существование заявки
func TestTaskService_CreateTask(t *testing.T) {
	appID := uuid.New()
	future := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	past := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)

	tests := []struct {
		name            string
		input           service.CreateTaskInput
		setupApps       func(*MockApplicationRepository)
		setupTasks      func(*MockTaskRepository)
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "error - empty application_id",
			input:           service.CreateTaskInput{TaskType: "call", DueAt: future},
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "missing required fields",
		},
		{
			name:            "error - empty task_type",
			input:           service.CreateTaskInput{ApplicationID: appID.String(), DueAt: future},
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "missing required fields",
		},
		{
			name:            "error - empty due_at",
			input:           service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "call"},
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "missing required fields",
		},
		{
			name:            "error - unknown task_type",
			input:           service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "meeting", DueAt: future},
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "invalid task_type",
		},
		{
			name:            "error - due_at is not a timestamp",
			input:           service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "call", DueAt: "not-a-date"},
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "due_at must be a valid future timestamp",
		},
		{
			name:            "error - due_at in the past",
			input:           service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "call", DueAt: past},
			expectedCode:    "VALIDATION_ERROR",
			expectedMessage: "due_at must be a valid future timestamp",
		},
		{
			name:            "error - application_id is not a uuid",
			input:           service.CreateTaskInput{ApplicationID: "app-1", TaskType: "call", DueAt: future},
			expectedCode:    "INVALID_REFERENCE",
			expectedMessage: "invalid application_id",
		},
		{
			name:  "error - application does not exist",
			input: service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "call", DueAt: future},
			setupApps: func(m *MockApplicationRepository) {
				m.On("GetTenantID", mock.Anything, appID).Return("", repo.ErrNotFound)
			},
			expectedCode:    "INVALID_REFERENCE",
			expectedMessage: "invalid application_id",
		},
		{
			name:  "error - application lookup fails",
			input: service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "call", DueAt: future},
			setupApps: func(m *MockApplicationRepository) {
				m.On("GetTenantID", mock.Anything, appID).Return("", errors.New("connection reset"))
			},
			expectedCode:    "INVALID_REFERENCE",
			expectedMessage: "invalid application_id",
		},
		{
			name:  "error - insert fails after validation",
			input: service.CreateTaskInput{ApplicationID: appID.String(), TaskType: "call", DueAt: future},
			setupApps: func(m *MockApplicationRepository) {
				m.On("GetTenantID", mock.Anything, appID).Return("t1", nil)
			},
			setupTasks: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
			},
			expectedCode:    "STORAGE_ERROR",
			expectedMessage: "Failed to create task",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			mockApps := new(MockApplicationRepository)
			if tt.setupApps != nil {
				tt.setupApps(mockApps)
			}
			if tt.setupTasks != nil {
				tt.setupTasks(mockTasks)
			}

			svc := service.NewTaskService(mockTasks, mockApps)
			id, err := svc.CreateTask(context.Background(), tt.input)

			require.Error(t, err)
			assert.Equal(t, uuid.Nil, id)
			assert.Equal(t, tt.expectedCode, businessCode(t, err))

			var businessErr *service.BusinessError
			require.ErrorAs(t, err, &businessErr)
			assert.Equal(t, tt.expectedMessage, businessErr.Message)

			// при провале валидации вставки быть не должно
			if tt.setupTasks == nil {
				mockTasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			mockApps.AssertExpectations(t)
			mockTasks.AssertExpectations(t)
		})
	}
}

// TestTaskService_CreateTask_Success проверяет перенос tenant_id из заявки
// и дефолтный открытый статус
func TestTaskService_CreateTask_Success(t *testing.T) {
	appID := uuid.New()
	taskID := uuid.New()
	dueAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	mockTasks := new(MockTaskRepository)
	mockApps := new(MockApplicationRepository)

	mockApps.On("GetTenantID", mock.Anything, appID).Return("t1", nil)
	mockTasks.On("Create", mock.Anything, mock.MatchedBy(func(created *task.Task) bool {
		return created.ApplicationID == appID &&
			created.TenantID == "t1" &&
			created.Type == task.TypeCall &&
			created.Status == task.StatusOpen &&
			created.DueAt.Equal(dueAt)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*task.Task).ID = taskID
	}).Return(nil)

	svc := service.NewTaskService(mockTasks, mockApps)
	id, err := svc.CreateTask(context.Background(), service.CreateTaskInput{
		ApplicationID: appID.String(),
		TaskType:      "call",
		DueAt:         dueAt.Format(time.RFC3339),
	})

	require.NoError(t, err)
	assert.Equal(t, taskID, id)
	mockApps.AssertExpectations(t)
	mockTasks.AssertExpectations(t)
}

// TestTaskService_CompleteTask тестирует односторонний переход статуса
func TestTaskService_CompleteTask(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name         string
		setupMock    func(*MockTaskRepository)
		expectedCode string
	}{
		{
			name: "success - task completed",
			setupMock: func(m *MockTaskRepository) {
				m.On("SetStatus", mock.Anything, taskID, task.StatusCompleted).Return(nil)
			},
		},
		{
			name: "success - completing twice is a no-op",
			setupMock: func(m *MockTaskRepository) {
				m.On("SetStatus", mock.Anything, taskID, task.StatusCompleted).Return(nil).Twice()
			},
		},
		{
			name: "error - task not found",
			setupMock: func(m *MockTaskRepository) {
				m.On("SetStatus", mock.Anything, taskID, task.StatusCompleted).Return(repo.ErrNotFound)
			},
			expectedCode: "NOT_FOUND",
		},
		{
			name: "error - storage failure",
			setupMock: func(m *MockTaskRepository) {
				m.On("SetStatus", mock.Anything, taskID, task.StatusCompleted).Return(errors.New("connection reset"))
			},
			expectedCode: "STORAGE_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			tt.setupMock(mockTasks)

			svc := service.NewTaskService(mockTasks, new(MockApplicationRepository))
			err := svc.CompleteTask(context.Background(), taskID)

			if tt.expectedCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedCode, businessCode(t, err))
			} else {
				require.NoError(t, err)
				// повторное завершение тоже проходит без ошибки
				if tt.name == "success - completing twice is a no-op" {
					require.NoError(t, svc.CompleteTask(context.Background(), taskID))
				}
			}
			mockTasks.AssertExpectations(t)
		})
	}
}

// TestTaskService_GetTasksDueBetween тестирует окно выборки
func TestTaskService_GetTasksDueBetween(t *testing.T) {
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	t.Run("success - passes window through", func(t *testing.T) {
		expected := []*task.Task{
			{ID: uuid.New(), DueAt: from.Add(9 * time.Hour)},
			{ID: uuid.New(), DueAt: from.Add(15 * time.Hour)},
		}

		mockTasks := new(MockTaskRepository)
		mockTasks.On("GetDueBetween", mock.Anything, from, to).Return(expected, nil)

		svc := service.NewTaskService(mockTasks, new(MockApplicationRepository))
		tasks, err := svc.GetTasksDueBetween(context.Background(), from, to)

		require.NoError(t, err)
		assert.Equal(t, expected, tasks)
		mockTasks.AssertExpectations(t)
	})

	t.Run("error - inverted window", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)

		svc := service.NewTaskService(mockTasks, new(MockApplicationRepository))
		_, err := svc.GetTasksDueBetween(context.Background(), to, from)

		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", businessCode(t, err))
		mockTasks.AssertNotCalled(t, "GetDueBetween", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - repository failure", func(t *testing.T) {
		mockTasks := new(MockTaskRepository)
		mockTasks.On("GetDueBetween", mock.Anything, from, to).Return(nil, errors.New("query failed"))

		svc := service.NewTaskService(mockTasks, new(MockApplicationRepository))
		_, err := svc.GetTasksDueBetween(context.Background(), from, to)

		assert.Error(t, err)
		mockTasks.AssertExpectations(t)
	})
}

func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - health check passes",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectError: false,
		},
		{
			name: "error - health check fails",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db connection failed"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTasks := new(MockTaskRepository)
			tt.setupMock(mockTasks)

			svc := service.NewTaskService(mockTasks, new(MockApplicationRepository))
			err := svc.HealthCheck(context.Background())

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockTasks.AssertExpectations(t)
		})
	}
}
