package repository

import (
	"context"
	"errors"

	"anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, phone, role, manager_id, region, status, created_at, updated_at`

type CreateUserParams struct {
	Name         string
	Email        string
	Phone        string
	Role         domain.Role
	ManagerID    *uuid.UUID
	Region       string
	PasswordHash string
}

type UpdateUserParams struct {
	Name      *string
	Phone     *string
	Role      *domain.Role
	ManagerID *uuid.UUID
	// ManagerIDSet distinguishes "leave unchanged" from "clear manager".
	ManagerIDSet bool
	Region       *string
	Status       *domain.UserStatus
}

// ListUsers returns the full directory, ex-users included.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

func (r *Repository) Create(ctx context.Context, params CreateUserParams) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, role, manager_id, region, status, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns+`
	`, params.Name, params.Email, params.Phone, string(params.Role), params.ManagerID, params.Region, string(domain.UserActive), params.PasswordHash)

	return scanUser(row)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateUserParams) (domain.User, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if params.Name != nil {
		current.Name = *params.Name
	}
	if params.Phone != nil {
		current.Phone = *params.Phone
	}
	if params.Role != nil {
		current.Role = *params.Role
	}
	if params.ManagerIDSet {
		current.ManagerID = params.ManagerID
	}
	if params.Region != nil {
		current.Region = *params.Region
	}
	if params.Status != nil {
		current.Status = *params.Status
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, phone = $3, role = $4, manager_id = $5, region = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, current.Name, current.Phone, string(current.Role), current.ManagerID, current.Region, string(current.Status))

	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return updated, err
}

// GetCredentials returns the password hash for login checks.
func (r *Repository) GetCredentials(ctx context.Context, email string) (domain.User, string, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE lower(email) = lower($1) AND status = 'Active'
	`, email)

	var (
		user         domain.User
		role, status string
		hash         string
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &role, &user.ManagerID, &user.Region, &status, &user.CreatedAt, &user.UpdatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", ErrNotFound
	}
	if err != nil {
		return domain.User{}, "", err
	}
	user.Role = domain.Role(role)
	user.Status = domain.UserStatus(status)
	return user, hash, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user         domain.User
		role, status string
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &role, &user.ManagerID, &user.Region, &status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = domain.Role(role)
	user.Status = domain.UserStatus(status)
	return user, nil
}
