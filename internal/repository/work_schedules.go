package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func (r *Repository) CreateWorkSchedule(schedule *domain.WorkSchedule) error {
	query := `
		INSERT INTO work_schedules (year_month, department_id, status, remarks, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{schedule.YearMonth, schedule.DepartmentID, schedule.Status, schedule.Remarks, schedule.CreatedBy}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetWorkScheduleByID(id int64) (*domain.WorkSchedule, error) {
	query := `
		SELECT year_month, department_id, status, remarks, is_final_approved, final_approver_id, final_approved_at, created_by, created_at, version
		FROM work_schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	schedule := &domain.WorkSchedule{
		ID: id,
	}

	dst := []any{
		&schedule.YearMonth,
		&schedule.DepartmentID,
		&schedule.Status,
		&schedule.Remarks,
		&schedule.IsFinalApproved,
		&schedule.FinalApproverID,
		&schedule.FinalApprovedAt,
		&schedule.CreatedBy,
		&schedule.CreatedAt,
		&schedule.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) GetWorkSchedulesByDepartmentID(departmentID int64) ([]*domain.WorkSchedule, error) {
	query := `
		SELECT id, year_month, status, remarks, is_final_approved, final_approver_id, final_approved_at, created_by, created_at, version
		FROM work_schedules WHERE department_id = $1
		ORDER BY year_month DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.WorkSchedule, 0)
	for rows.Next() {
		schedule := &domain.WorkSchedule{DepartmentID: departmentID}
		dst := []any{
			&schedule.ID,
			&schedule.YearMonth,
			&schedule.Status,
			&schedule.Remarks,
			&schedule.IsFinalApproved,
			&schedule.FinalApproverID,
			&schedule.FinalApprovedAt,
			&schedule.CreatedBy,
			&schedule.CreatedAt,
			&schedule.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) UpdateWorkSchedule(schedule *domain.WorkSchedule) error {
	query := `
		UPDATE work_schedules
		SET
			status = $1,
			remarks = $2,
			is_final_approved = $3,
			final_approver_id = $4,
			final_approved_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		schedule.Status,
		schedule.Remarks,
		schedule.IsFinalApproved,
		schedule.FinalApproverID,
		schedule.FinalApprovedAt,
		schedule.ID,
		schedule.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&schedule.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorkSchedule(id int64) error {
	query := `
		DELETE FROM work_schedules WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func scanEntry(scan func(...any) error) (*domain.ScheduleEntry, error) {
	entry := &domain.ScheduleEntry{}
	var workData []byte
	var dutyDetail []byte

	dst := []any{
		&entry.ID,
		&entry.WorkScheduleID,
		&entry.UserID,
		&workData,
		&entry.NightDutyRequired,
		&entry.NightCount,
		&entry.OffCount,
		&entry.VacationCount,
		&dutyDetail,
		&entry.PositionID,
		&entry.Remarks,
		&entry.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(workData, &entry.WorkData); err != nil {
		return nil, err
	}
	if dutyDetail != nil {
		entry.DutyDetail = &domain.DutyDetail{}
		if err := json.Unmarshal(dutyDetail, entry.DutyDetail); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

func (r *Repository) GetScheduleEntries(workScheduleID int64) ([]*domain.ScheduleEntry, error) {
	query := `
		SELECT id, work_schedule_id, user_id, work_data, night_duty_required, night_count, off_count, vacation_count, duty_detail, position_id, remarks, version
		FROM schedule_entries WHERE work_schedule_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workScheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) GetScheduleEntryByID(id int64) (*domain.ScheduleEntry, error) {
	query := `
		SELECT id, work_schedule_id, user_id, work_data, night_duty_required, night_count, off_count, vacation_count, duty_detail, position_id, remarks, version
		FROM schedule_entries WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanEntry(row.Scan)
}

func (r *Repository) CreateScheduleEntry(entry *domain.ScheduleEntry) error {
	workData, err := json.Marshal(entry.WorkData)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schedule_entries (work_schedule_id, user_id, work_data, night_duty_required, position_id, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, night_count, off_count, vacation_count, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{entry.WorkScheduleID, entry.UserID, workData, entry.NightDutyRequired, entry.PositionID, entry.Remarks}
	dst := []any{&entry.ID, &entry.NightCount, &entry.OffCount, &entry.VacationCount, &entry.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteScheduleEntry(id int64) error {
	query := `
		DELETE FROM schedule_entries WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// UpdateScheduleEntries 는 셀 편집으로 변경된 항목들을 한 트랜잭션으로
// 저장한다. 어느 한 항목이라도 버전이 어긋나면 전체가 롤백된다.
func (r *Repository) UpdateScheduleEntries(entries []*domain.ScheduleEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE schedule_entries
		SET
			work_data = $1,
			night_duty_required = $2,
			night_count = $3,
			off_count = $4,
			vacation_count = $5,
			duty_detail = $6,
			position_id = $7,
			remarks = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	for _, entry := range entries {
		workData, err := json.Marshal(entry.WorkData)
		if err != nil {
			return err
		}

		var dutyDetail []byte
		if entry.DutyDetail != nil {
			dutyDetail, err = json.Marshal(entry.DutyDetail)
			if err != nil {
				return err
			}
		}

		args := []any{
			workData,
			entry.NightDutyRequired,
			entry.NightCount,
			entry.OffCount,
			entry.VacationCount,
			dutyDetail,
			entry.PositionID,
			entry.Remarks,
			entry.ID,
			entry.Version,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&entry.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}
