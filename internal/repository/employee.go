package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigboard/gigboard/internal/domain"
)

var employeeColumns = []string{"id", "principal_id", "name", "token", "created_at"}

// EmployeeRepository handles database operations for employees.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var employee domain.Employee
	err := row.Scan(
		&employee.ID,
		&employee.PrincipalID,
		&employee.Name,
		&employee.Token,
		&employee.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &employee, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query, args, err := psql.
		Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"id": employeeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for employee: %w", err)
	}

	return scanEmployee(r.pool.QueryRow(ctx, query, args...))
}

// GetByPrincipalID retrieves the employee linked to an external principal.
func (r *EmployeeRepository) GetByPrincipalID(ctx context.Context, principalID string) (*domain.Employee, error) {
	query, args, err := psql.
		Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"principal_id": principalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByPrincipalID query for employee: %w", err)
	}

	return scanEmployee(r.pool.QueryRow(ctx, query, args...))
}

// GetByToken finds an employee by API token.
func (r *EmployeeRepository) GetByToken(ctx context.Context, token string) (*domain.Employee, error) {
	query, args, err := psql.
		Select(employeeColumns...).
		From("employees").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByToken query for employee: %w", err)
	}

	return scanEmployee(r.pool.QueryRow(ctx, query, args...))
}
