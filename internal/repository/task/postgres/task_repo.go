package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"followupTracker/internal/logger"
	"followupTracker/internal/models/task"
	repo "followupTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, maxConns, minConns int32, idleTimeout time.Duration) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if minConns > 0 {
		config.MinConns = minConns
	}
	if idleTimeout > 0 {
		config.MaxConnIdleTime = idleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Create вставляет задачу, id назначает база
func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(application_id, tenant_id, type, status, due_at, title, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ApplicationID,
		taskToCreate.TenantID,
		taskToCreate.Type,
		taskToCreate.Status,
		taskToCreate.DueAt,
		taskToCreate.Title,
		time.Now(),
	).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT
				id,
				application_id,
				tenant_id,
				type,
				status,
				due_at,
				title,
				created_at
				FROM tasks
				WHERE id = $1`

	t := &task.Task{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.ApplicationID,
		&t.TenantID,
		&t.Type,
		&t.Status,
		&t.DueAt,
		&t.Title,
		&t.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return t, nil
}

// GetDueBetween - окно [from, to) по возрастанию due_at
func (s *Storage) GetDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT
				id,
				application_id,
				tenant_id,
				type,
				status,
				due_at,
				title,
				created_at
				FROM tasks
				WHERE due_at >= $1 AND due_at < $2
				ORDER BY due_at ASC`

	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	defer rows.Close()

	tasks := []*task.Task{}

	for rows.Next() {
		t := &task.Task{}

		err := rows.Scan(
			&t.ID,
			&t.ApplicationID,
			&t.TenantID,
			&t.Type,
			&t.Status,
			&t.DueAt,
			&t.Title,
			&t.CreatedAt,
		)

		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

// SetStatus - точечное обновление без проверки текущего статуса,
// повторное завершение задачи проходит как no-op
func (s *Storage) SetStatus(ctx context.Context, id uuid.UUID, status task.Status) error {
	start := time.Now()

	query := `UPDATE tasks
			SET status = $1
			WHERE id = $2`

	tag, err := s.pool.Exec(ctx, query, status, id)
	if err != nil {
		logger.Error("Repository: Не удалось обновить статус", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление статуса: %w", err)
	}

	if tag.RowsAffected() == 0 {
		logger.Warn("Repository: Задача для обновления не найдена",
			zap.String("task_id", id.String()))
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// GetTenantID - единственное чтение из applications: проекция tenant_id по id
func (s *Storage) GetTenantID(ctx context.Context, applicationID uuid.UUID) (string, error) {
	start := time.Now()

	query := `SELECT tenant_id FROM applications WHERE id = $1`

	var tenantID string
	err := s.pool.QueryRow(ctx, query, applicationID).Scan(&tenantID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить заявку", err, zap.Duration("ms", time.Since(start)))
		return "", fmt.Errorf("получение заявки: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tenantID, nil
}
