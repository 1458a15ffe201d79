package repository

import (
	"context"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func (r *Repository) GetDepartmentByID(id int64) (*domain.Department, error) {
	query := `
		SELECT name, manager_id, created_at, version FROM departments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	dept := &domain.Department{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&dept.Name, &dept.ManagerID, &dept.CreatedAt, &dept.Version); err != nil {
		return nil, err
	}

	return dept, nil
}

func (r *Repository) GetAllDepartments() ([]*domain.Department, error) {
	query := `
		SELECT id, name, manager_id, created_at, version FROM departments
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	depts := make([]*domain.Department, 0)
	for rows.Next() {
		dept := &domain.Department{}
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.ManagerID, &dept.CreatedAt, &dept.Version); err != nil {
			return nil, err
		}
		depts = append(depts, dept)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return depts, nil
}

func (r *Repository) CreateDepartment(dept *domain.Department) error {
	query := `
		INSERT INTO departments (name, manager_id)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, dept.Name, dept.ManagerID).Scan(&dept.ID, &dept.CreatedAt, &dept.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPositionsByDepartmentID(departmentID int64) ([]*domain.Position, error) {
	query := `
		SELECT id, name FROM positions WHERE department_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]*domain.Position, 0)
	for rows.Next() {
		position := &domain.Position{DepartmentID: departmentID}
		if err := rows.Scan(&position.ID, &position.Name); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

func (r *Repository) CreatePosition(position *domain.Position) error {
	query := `
		INSERT INTO positions (department_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, position.DepartmentID, position.Name).Scan(&position.ID); err != nil {
		return err
	}

	return nil
}
