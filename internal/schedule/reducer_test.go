package schedule

import (
	"errors"
	"testing"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

func TestApplyCellEdit(t *testing.T) {
	base := domain.ScheduleEntry{
		ID:       1,
		WorkData: domain.ShiftAssignment{"1": "N", "5-10": "텍스트:병가"},
	}

	t.Run("set cell", func(t *testing.T) {
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdSetCell, Day: 2, Value: "D"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.WorkData["2"] != "D" {
			t.Errorf("day 2 = %q, want D", next.WorkData["2"])
		}
		if _, exists := base.WorkData["2"]; exists {
			t.Error("input entry must not be mutated")
		}
	})

	t.Run("set cell inside merged range fails", func(t *testing.T) {
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdSetCell, Day: 7, Value: "D"})
		if !errors.Is(err, ErrOverlappingAssignment) {
			t.Fatalf("expected ErrOverlappingAssignment, got %v", err)
		}
		if next.WorkData["7"] != "" && next.WorkData["7"] != base.WorkData["7"] {
			t.Error("failed edit must return the entry unchanged")
		}
	})

	t.Run("clear cell", func(t *testing.T) {
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdClearCell, Day: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.WorkData["1"] != "" {
			t.Errorf("day 1 = %q, want empty", next.WorkData["1"])
		}
	})

	t.Run("merge and unmerge", func(t *testing.T) {
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdMergeRange, StartDay: 12, EndDay: 15, Text: "교육"})
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		if next.WorkData["12-15"] != "텍스트:교육" {
			t.Errorf("merged value = %q", next.WorkData["12-15"])
		}

		next, err = ApplyCellEdit(next, CellCommand{Kind: CmdUnmergeRange, StartDay: 12, EndDay: 15})
		if err != nil {
			t.Fatalf("unmerge: %v", err)
		}
		if _, exists := next.WorkData["12-15"]; exists {
			t.Error("range key should be gone after unmerge")
		}
		if value, exists := next.WorkData["13"]; !exists || value != "" {
			t.Error("days should be restored as empty cells")
		}
	})

	t.Run("set remarks", func(t *testing.T) {
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdSetRemarks, Remarks: "교육 참석"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.Remarks != "교육 참석" {
			t.Errorf("remarks = %q", next.Remarks)
		}
	})

	t.Run("set required nights", func(t *testing.T) {
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdSetRequiredNights, Required: 6})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.NightDutyRequired != 6 {
			t.Errorf("required = %d, want 6", next.NightDutyRequired)
		}

		if _, err := ApplyCellEdit(base, CellCommand{Kind: CmdSetRequiredNights, Required: -1}); err == nil {
			t.Error("expected error for negative required nights")
		}
	})

	t.Run("set position", func(t *testing.T) {
		positionID := int64(3)
		next, err := ApplyCellEdit(base, CellCommand{Kind: CmdSetPosition, PositionID: &positionID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.PositionID == nil || *next.PositionID != 3 {
			t.Errorf("position = %v, want 3", next.PositionID)
		}
	})

	t.Run("nil work data is initialized", func(t *testing.T) {
		entry := domain.ScheduleEntry{ID: 2}
		next, err := ApplyCellEdit(entry, CellCommand{Kind: CmdSetCell, Day: 1, Value: "N"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.WorkData["1"] != "N" {
			t.Errorf("day 1 = %q, want N", next.WorkData["1"])
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		if _, err := ApplyCellEdit(base, CellCommand{Kind: CommandKind(99)}); err == nil {
			t.Error("expected error for unknown command")
		}
	})
}
