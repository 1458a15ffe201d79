package utils

import (
	"testing"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/approval"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func TestValidateApprovalLine(t *testing.T) {
	id1, id2 := int64(1), int64(2)

	t.Run("valid line", func(t *testing.T) {
		line := []approval.LineStep{
			{Kind: domain.StepKindDeptHead, ApproverID: &id1},
			{Kind: domain.StepKindApprover, ApproverID: &id2},
		}
		if err := ValidateApprovalLine(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty line", func(t *testing.T) {
		if err := ValidateApprovalLine(nil); err == nil {
			t.Fatal("expected error for empty line")
		}
	})

	t.Run("creator not allowed", func(t *testing.T) {
		line := []approval.LineStep{{Kind: domain.StepKindCreator, ApproverID: &id1}}
		if err := ValidateApprovalLine(line); err == nil {
			t.Fatal("expected error for creator in line")
		}
	})

	t.Run("approver without id", func(t *testing.T) {
		line := []approval.LineStep{{Kind: domain.StepKindApprover}}
		if err := ValidateApprovalLine(line); err == nil {
			t.Fatal("expected error for unassigned approver")
		}
	})

	t.Run("duplicate approver", func(t *testing.T) {
		line := []approval.LineStep{
			{Kind: domain.StepKindApprover, ApproverID: &id1},
			{Kind: domain.StepKindApprover, ApproverID: &id1},
		}
		if err := ValidateApprovalLine(line); err == nil {
			t.Fatal("expected error for duplicate approver")
		}
	})

	t.Run("two dept head steps", func(t *testing.T) {
		line := []approval.LineStep{
			{Kind: domain.StepKindDeptHead, ApproverID: &id1},
			{Kind: domain.StepKindDeptHead, ApproverID: &id2},
		}
		if err := ValidateApprovalLine(line); err == nil {
			t.Fatal("expected error for two dept head steps")
		}
	})
}

func TestValidateAssignmentDays(t *testing.T) {
	t.Run("within month", func(t *testing.T) {
		a := domain.ShiftAssignment{"1": "N", "28-30": "텍스트:병가", "rowType": "normal"}
		if err := ValidateAssignmentDays(a, 2026, time.September); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("day past end of month", func(t *testing.T) {
		a := domain.ShiftAssignment{"31": "N"}
		if err := ValidateAssignmentDays(a, 2026, time.September); err == nil {
			t.Fatal("expected error for day 31 in a 30 day month")
		}
	})

	t.Run("range past end of month", func(t *testing.T) {
		a := domain.ShiftAssignment{"28-31": "텍스트:병가"}
		if err := ValidateAssignmentDays(a, 2026, time.September); err == nil {
			t.Fatal("expected error for range ending past day 30")
		}
	})

	t.Run("february leap year", func(t *testing.T) {
		a := domain.ShiftAssignment{"29": "N"}
		if err := ValidateAssignmentDays(a, 2028, time.February); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ValidateAssignmentDays(a, 2026, time.February); err == nil {
			t.Fatal("expected error for feb 29 in a non leap year")
		}
	})

	t.Run("overlap is rejected", func(t *testing.T) {
		a := domain.ShiftAssignment{"7": "N", "5-10": "텍스트:병가"}
		if err := ValidateAssignmentDays(a, 2026, time.September); err == nil {
			t.Fatal("expected error for overlapping keys")
		}
	})

	t.Run("bad key", func(t *testing.T) {
		a := domain.ShiftAssignment{"abc": "N"}
		if err := ValidateAssignmentDays(a, 2026, time.September); err == nil {
			t.Fatal("expected error for non day key")
		}
	})
}
