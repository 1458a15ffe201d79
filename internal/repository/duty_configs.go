package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func scanDutyConfig(scan func(...any) error) (*domain.DutyConfig, error) {
	cfg := &domain.DutyConfig{}
	dst := []any{
		&cfg.ID,
		&cfg.DepartmentID,
		&cfg.WorkScheduleID,
		&cfg.DutyMode,
		&cfg.DisplayName,
		&cfg.CellSymbol,
		&cfg.UseWeekday,
		&cfg.UseFriday,
		&cfg.UseSaturday,
		&cfg.UseHoliday,
		&cfg.CreatedAt,
		&cfg.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetDutyConfig 는 근무표 전용 설정을 먼저 찾고, 없으면 부서 기본 설정으로
// 내려간다. 둘 다 없으면 sql.ErrNoRows 를 반환한다(설정이 없던 과거 경로).
func (r *Repository) GetDutyConfig(departmentID int64, workScheduleID int64) (*domain.DutyConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, department_id, work_schedule_id, duty_mode, display_name, cell_symbol, use_weekday, use_friday, use_saturday, use_holiday, created_at, version
		FROM dept_duty_configs
		WHERE department_id = $1 AND work_schedule_id = $2
	`

	cfg, err := scanDutyConfig(r.dbpool.QueryRowContext(ctx, query, departmentID, workScheduleID).Scan)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	query = `
		SELECT id, department_id, work_schedule_id, duty_mode, display_name, cell_symbol, use_weekday, use_friday, use_saturday, use_holiday, created_at, version
		FROM dept_duty_configs
		WHERE department_id = $1 AND work_schedule_id IS NULL
	`

	return scanDutyConfig(r.dbpool.QueryRowContext(ctx, query, departmentID).Scan)
}

// UpsertDutyConfig 는 (부서, 근무표) 조합당 하나의 설정을 유지한다.
func (r *Repository) UpsertDutyConfig(cfg *domain.DutyConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO dept_duty_configs (department_id, work_schedule_id, duty_mode, display_name, cell_symbol, use_weekday, use_friday, use_saturday, use_holiday)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (department_id, COALESCE(work_schedule_id, 0))
		DO UPDATE SET
			duty_mode = EXCLUDED.duty_mode,
			display_name = EXCLUDED.display_name,
			cell_symbol = EXCLUDED.cell_symbol,
			use_weekday = EXCLUDED.use_weekday,
			use_friday = EXCLUDED.use_friday,
			use_saturday = EXCLUDED.use_saturday,
			use_holiday = EXCLUDED.use_holiday,
			version = dept_duty_configs.version + 1
		RETURNING id, created_at, version
	`

	args := []any{
		cfg.DepartmentID,
		cfg.WorkScheduleID,
		cfg.DutyMode,
		cfg.DisplayName,
		cfg.CellSymbol,
		cfg.UseWeekday,
		cfg.UseFriday,
		cfg.UseSaturday,
		cfg.UseHoliday,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.Version); err != nil {
		return err
	}

	return nil
}
