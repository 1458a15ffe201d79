package repository

import (
	"context"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func (r *Repository) GetApprovalSteps(workScheduleID int64) ([]*domain.ApprovalStep, error) {
	query := `
		SELECT id, kind, step_order, approver_id, approver_name, signature_ref, signed_at, is_current, is_final_approved, is_rejected, rejection_reason, rejected_by, version
		FROM approval_steps WHERE work_schedule_id = $1
		ORDER BY step_order
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workScheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := make([]*domain.ApprovalStep, 0)
	for rows.Next() {
		step := &domain.ApprovalStep{WorkScheduleID: workScheduleID}
		dst := []any{
			&step.ID,
			&step.Kind,
			&step.StepOrder,
			&step.ApproverID,
			&step.ApproverName,
			&step.SignatureRef,
			&step.SignedAt,
			&step.IsCurrent,
			&step.IsFinalApproved,
			&step.IsRejected,
			&step.RejectionReason,
			&step.RejectedBy,
			&step.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return steps, nil
}

// SaveApprovalState 는 상태 기계가 변경한 근무표 상태와 결재 단계 전체를
// 한 트랜잭션으로 저장한다. 기존 단계는 지우고 다시 넣는데, 상신 때마다
// 결재선이 통째로 바뀔 수 있어서 개별 갱신보다 단순하고 안전하다.
func (r *Repository) SaveApprovalState(schedule *domain.WorkSchedule, steps []*domain.ApprovalStep) error {
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
		UPDATE work_schedules
		SET
			status = $1,
			is_final_approved = $2,
			final_approver_id = $3,
			final_approved_at = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{
		schedule.Status,
		schedule.IsFinalApproved,
		schedule.FinalApproverID,
		schedule.FinalApprovedAt,
		schedule.ID,
		schedule.Version,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&schedule.Version); err != nil {
		return err
	}

	query = `DELETE FROM approval_steps WHERE work_schedule_id = $1`
	if _, err := tx.ExecContext(ctx, query, schedule.ID); err != nil {
		return err
	}

	query = `
		INSERT INTO approval_steps (work_schedule_id, kind, step_order, approver_id, approver_name, signature_ref, signed_at, is_current, is_final_approved, is_rejected, rejection_reason, rejected_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, version
	`

	for _, step := range steps {
		args := []any{
			schedule.ID,
			step.Kind,
			step.StepOrder,
			step.ApproverID,
			step.ApproverName,
			step.SignatureRef,
			step.SignedAt,
			step.IsCurrent,
			step.IsFinalApproved,
			step.IsRejected,
			step.RejectionReason,
			step.RejectedBy,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&step.ID, &step.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}
