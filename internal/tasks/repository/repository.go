package repository

import (
	"context"
	"errors"
	"time"

	"anchor_crm_backend/internal/tasks/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("task not found")

// TaskStore is the data access interface consumers depend on.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error)
	Create(ctx context.Context, params CreateTaskParams) (domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateTaskParams) (domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, title, description, assigned_to, anchor_id, status, priority, due_date, created_by, created_at, updated_at`

type CreateTaskParams struct {
	Title              string
	Description        string
	AssignedTo         uuid.UUID
	AssociatedAnchorID *uuid.UUID
	Priority           domain.Priority
	DueDate            *time.Time
	CreatedBy          uuid.UUID
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	Status      *domain.TaskStatus
	Priority    *domain.Priority
	DueDate     *time.Time
	// DueDateSet distinguishes "leave unchanged" from "clear due date".
	DueDateSet bool
}

func (r *Repository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY due_date ASC NULLS LAST, created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id)

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return task, err
}

func (r *Repository) Create(ctx context.Context, params CreateTaskParams) (domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, assigned_to, anchor_id, status, priority, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns+`
	`, params.Title, params.Description, params.AssignedTo, params.AssociatedAnchorID,
		string(domain.TaskToDo), string(params.Priority), params.DueDate, params.CreatedBy)

	return scanTask(row)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateTaskParams) (domain.Task, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	if params.Title != nil {
		current.Title = *params.Title
	}
	if params.Description != nil {
		current.Description = *params.Description
	}
	if params.AssignedTo != nil {
		current.AssignedTo = *params.AssignedTo
	}
	if params.Status != nil {
		current.Status = *params.Status
	}
	if params.Priority != nil {
		current.Priority = *params.Priority
	}
	if params.DueDateSet {
		current.DueDate = params.DueDate
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, assigned_to = $4, status = $5, priority = $6, due_date = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+taskColumns+`
	`, id, current.Title, current.Description, current.AssignedTo,
		string(current.Status), string(current.Priority), current.DueDate)

	updated, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return updated, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		task             domain.Task
		status, priority string
	)
	err := row.Scan(&task.ID, &task.Title, &task.Description, &task.AssignedTo, &task.AssociatedAnchorID,
		&status, &priority, &task.DueDate, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return domain.Task{}, err
	}
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.Priority(priority)
	return task, nil
}
