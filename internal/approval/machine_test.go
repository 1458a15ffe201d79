package approval

import (
	"errors"
	"testing"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func draftSchedule() *domain.WorkSchedule {
	deptID := int64(10)
	return &domain.WorkSchedule{
		ID:           1,
		YearMonth:    "2026-09",
		DepartmentID: deptID,
		Status:       domain.ScheduleStatusDraft,
		CreatedBy:    100,
	}
}

func approverLine(ids ...int64) []LineStep {
	line := make([]LineStep, 0, len(ids))
	for _, id := range ids {
		approverID := id
		line = append(line, LineStep{
			Kind:       domain.StepKindApprover,
			ApproverID: &approverID,
		})
	}
	return line
}

// submittedMachine 은 기안자 서명과 상신까지 끝난 상태 기계를 만든다.
func submittedMachine(t *testing.T, approverIDs ...int64) *Machine {
	t.Helper()
	m := New(draftSchedule(), nil)
	if err := m.ToggleCreatorSign(100, "sig-creator", testNow); err != nil {
		t.Fatalf("creator sign: %v", err)
	}
	if err := m.Submit(approverLine(approverIDs...), false, testNow); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return m
}

func TestToggleCreatorSign(t *testing.T) {
	m := New(draftSchedule(), nil)

	if err := m.ToggleCreatorSign(100, "sig", testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	creator := m.Steps[0]
	if creator.Kind != domain.StepKindCreator || !creator.Signed() {
		t.Fatalf("creator step not signed: %+v", creator)
	}

	// 다시 호출하면 서명이 해제된다
	if err := m.ToggleCreatorSign(100, "sig", testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creator.Signed() {
		t.Fatal("creator sign should be removed on second toggle")
	}

	// 상신 후에는 토글할 수 없다
	m2 := submittedMachine(t, 200)
	if err := m2.ToggleCreatorSign(100, "sig", testNow); !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
}

func TestSubmit(t *testing.T) {
	t.Run("requires creator sign", func(t *testing.T) {
		m := New(draftSchedule(), nil)
		err := m.Submit(approverLine(200), false, testNow)
		if !errors.Is(err, ErrCreatorSignRequired) {
			t.Fatalf("expected ErrCreatorSignRequired, got %v", err)
		}
	})

	t.Run("requires a line", func(t *testing.T) {
		m := New(draftSchedule(), nil)
		if err := m.ToggleCreatorSign(100, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		if err := m.Submit(nil, false, testNow); !errors.Is(err, ErrApprovalLineRequired) {
			t.Fatalf("expected ErrApprovalLineRequired, got %v", err)
		}
	})

	t.Run("unresolved dept head", func(t *testing.T) {
		m := New(draftSchedule(), nil)
		if err := m.ToggleCreatorSign(100, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		line := []LineStep{{Kind: domain.StepKindDeptHead}}
		if err := m.Submit(line, false, testNow); !errors.Is(err, ErrDeptHeadUnresolved) {
			t.Fatalf("expected ErrDeptHeadUnresolved, got %v", err)
		}
	})

	t.Run("happy path", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)

		if m.Schedule.Status != domain.ScheduleStatusSubmitted {
			t.Fatalf("status = %s, want SUBMITTED", m.Schedule.Status)
		}
		if len(m.Steps) != 3 {
			t.Fatalf("got %d steps, want 3", len(m.Steps))
		}
		first := m.findStep(1)
		if first == nil || !first.IsCurrent {
			t.Fatal("first approver step should be current")
		}
	})

	t.Run("resolved dept head becomes plain approver", func(t *testing.T) {
		m := New(draftSchedule(), nil)
		if err := m.ToggleCreatorSign(100, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		headID := int64(500)
		line := []LineStep{{Kind: domain.StepKindDeptHead, ApproverID: &headID, ApproverName: "부서장"}}
		if err := m.Submit(line, false, testNow); err != nil {
			t.Fatalf("submit: %v", err)
		}
		step := m.findStep(1)
		if step.Kind != domain.StepKindApprover {
			t.Errorf("kind = %s, want APPROVER", step.Kind)
		}
	})
}

func TestSignStep(t *testing.T) {
	t.Run("signing advances and approves", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)

		if err := m.SignStep(200, 1, "sig-200", testNow); err != nil {
			t.Fatalf("sign step 1: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusSubmitted {
			t.Fatal("one signature must not approve a two step line")
		}
		if next := m.findStep(2); !next.IsCurrent {
			t.Fatal("current marker should move to step 2")
		}

		if err := m.SignStep(300, 2, "sig-300", testNow); err != nil {
			t.Fatalf("sign step 2: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusApproved {
			t.Fatalf("status = %s, want APPROVED", m.Schedule.Status)
		}
	})

	t.Run("unsign reverts approval", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)
		if err := m.SignStep(200, 1, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		if err := m.SignStep(300, 2, "sig", testNow); err != nil {
			t.Fatal(err)
		}

		if err := m.SignStep(300, 2, "sig", testNow); err != nil {
			t.Fatalf("unsign: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusSubmitted {
			t.Fatalf("status = %s, want SUBMITTED after unsign", m.Schedule.Status)
		}
	})

	t.Run("unsign blocked when later step signed", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)
		if err := m.SignStep(200, 1, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		if err := m.SignStep(300, 2, "sig", testNow); err != nil {
			t.Fatal(err)
		}

		if err := m.SignStep(200, 1, "sig", testNow); err == nil {
			t.Fatal("expected error when unsigning below a signed step")
		}
	})

	t.Run("wrong approver", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.SignStep(999, 1, "sig", testNow); !errors.Is(err, ErrNotYourStep) {
			t.Fatalf("expected ErrNotYourStep, got %v", err)
		}
	})

	t.Run("out of turn", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)
		if err := m.SignStep(300, 2, "sig", testNow); !errors.Is(err, ErrNotCurrentStep) {
			t.Fatalf("expected ErrNotCurrentStep, got %v", err)
		}
	})
}

func TestFinalApprove(t *testing.T) {
	t.Run("last step short circuits", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)

		// 1단계 서명 없이 2단계가 전결한다
		if err := m.FinalApprove(300, 2, "sig-300", testNow); err != nil {
			t.Fatalf("final approve: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusApproved {
			t.Fatalf("status = %s, want APPROVED", m.Schedule.Status)
		}
	})

	t.Run("signing a final approved document is rejected", func(t *testing.T) {
		m := submittedMachine(t, 200, 300)
		if err := m.FinalApprove(300, 2, "sig", testNow); err != nil {
			t.Fatal(err)
		}

		if err := m.SignStep(200, 1, "sig", testNow); !errors.Is(err, ErrFinalApprovedStep) {
			t.Fatalf("expected ErrFinalApprovedStep, got %v", err)
		}
	})

	t.Run("middle step skips the remaining steps", func(t *testing.T) {
		m := submittedMachine(t, 200, 300, 400)

		// 2단계의 전결은 앞의 1단계뿐 아니라 뒤의 3단계도 생략한다
		if err := m.FinalApprove(300, 2, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		if m.Schedule.Status != domain.ScheduleStatusApproved {
			t.Fatalf("status = %s, want APPROVED", m.Schedule.Status)
		}

		if err := m.SignStep(400, 3, "sig", testNow); !errors.Is(err, ErrFinalApprovedStep) {
			t.Fatalf("expected ErrFinalApprovedStep for a later step, got %v", err)
		}
	})
}

func TestReject(t *testing.T) {
	t.Run("requires reason", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.Reject(200, 1, "", false, testNow); !errors.Is(err, ErrRejectionReasonRequired) {
			t.Fatalf("expected ErrRejectionReasonRequired, got %v", err)
		}
	})

	t.Run("rejects submitted document", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.Reject(200, 1, "근무 배정 오류", false, testNow); err != nil {
			t.Fatalf("reject: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusRejected {
			t.Fatalf("status = %s, want REJECTED", m.Schedule.Status)
		}
		step := m.findStep(1)
		if !step.IsRejected || step.RejectionReason != "근무 배정 오류" {
			t.Errorf("rejection not recorded: %+v", step)
		}
	})

	t.Run("only the designated approver can reject", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.Reject(999, 1, "사유", false, testNow); !errors.Is(err, ErrNotYourStep) {
			t.Fatalf("expected ErrNotYourStep, got %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusSubmitted {
			t.Fatalf("status = %s, want SUBMITTED", m.Schedule.Status)
		}
	})

	t.Run("approved document needs force", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.SignStep(200, 1, "sig", testNow); err != nil {
			t.Fatal(err)
		}

		if err := m.Reject(200, 1, "사유", false, testNow); !errors.Is(err, ErrNotSubmitted) {
			t.Fatalf("expected ErrNotSubmitted, got %v", err)
		}
		if err := m.Reject(200, 1, "사유", true, testNow); err != nil {
			t.Fatalf("forced reject: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusRejected {
			t.Fatalf("status = %s, want REJECTED", m.Schedule.Status)
		}
	})

	t.Run("reject clears the final lock", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.SignStep(200, 1, "sig", testNow); err != nil {
			t.Fatal(err)
		}
		if err := m.ToggleFinalLock(900, testNow); err != nil {
			t.Fatal(err)
		}

		if err := m.Reject(900, 1, "수정 필요", true, testNow); err != nil {
			t.Fatal(err)
		}
		if m.Schedule.IsFinalApproved || m.Schedule.FinalApproverID != nil {
			t.Error("final lock should be cleared on rejection")
		}
	})

	t.Run("resubmit after rejection", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.Reject(200, 1, "사유", false, testNow); err != nil {
			t.Fatal(err)
		}

		// 반려된 문서는 기안자 서명이 남아 있으므로 바로 다시 상신할 수 있다
		if err := m.Submit(approverLine(300), false, testNow); err != nil {
			t.Fatalf("resubmit: %v", err)
		}
		if m.Schedule.Status != domain.ScheduleStatusSubmitted {
			t.Fatalf("status = %s, want SUBMITTED", m.Schedule.Status)
		}
	})
}

func TestToggleFinalLock(t *testing.T) {
	m := submittedMachine(t, 200)

	if err := m.ToggleFinalLock(900, testNow); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}

	if err := m.SignStep(200, 1, "sig", testNow); err != nil {
		t.Fatal(err)
	}

	if err := m.ToggleFinalLock(900, testNow); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !m.Schedule.IsFinalApproved || m.Schedule.FinalApproverID == nil || *m.Schedule.FinalApproverID != 900 {
		t.Fatalf("lock not recorded: %+v", m.Schedule)
	}

	if err := m.ToggleFinalLock(900, testNow); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if m.Schedule.IsFinalApproved || m.Schedule.FinalApprovedAt != nil {
		t.Fatal("lock should be cleared on second toggle")
	}
}

func TestCanEdit(t *testing.T) {
	deptID := int64(10)
	otherDeptID := int64(20)
	creator := &domain.User{ID: 100, Role: domain.RoleStaff, DepartmentID: &deptID}
	manager := &domain.User{ID: 101, Role: domain.RoleDeptManager, DepartmentID: &deptID}
	otherStaff := &domain.User{ID: 102, Role: domain.RoleStaff, DepartmentID: &deptID}
	otherManager := &domain.User{ID: 103, Role: domain.RoleDeptManager, DepartmentID: &otherDeptID}
	admin := &domain.User{ID: 104, Role: domain.RoleHRAdmin}

	t.Run("draft", func(t *testing.T) {
		m := New(draftSchedule(), nil)
		if !m.CanEdit(creator) || !m.CanEdit(manager) || !m.CanEdit(admin) {
			t.Error("creator, dept manager and hr admin should edit a draft")
		}
		if m.CanEdit(otherStaff) || m.CanEdit(otherManager) {
			t.Error("other staff and other dept manager must not edit")
		}
	})

	t.Run("submitted locks everyone but admin", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if m.CanEdit(creator) || m.CanEdit(manager) {
			t.Error("submitted schedule must not be editable")
		}
		if !m.CanEdit(admin) {
			t.Error("hr admin can always edit")
		}
	})

	t.Run("approved with and without lock", func(t *testing.T) {
		m := submittedMachine(t, 200)
		if err := m.SignStep(200, 1, "sig", testNow); err != nil {
			t.Fatal(err)
		}

		if !m.CanEdit(manager) {
			t.Error("dept manager should edit an approved unlocked schedule")
		}
		if m.CanEdit(creator) {
			t.Error("plain staff must not edit an approved schedule")
		}

		if err := m.ToggleFinalLock(900, testNow); err != nil {
			t.Fatal(err)
		}
		if m.CanEdit(manager) {
			t.Error("locked schedule must not be editable by dept manager")
		}
		if !m.CanEdit(admin) {
			t.Error("hr admin can always edit")
		}
	})
}
