// Package approval 은 근무표 결재 문서의 상태 전이를 담당한다.
// 문서는 작성중(DRAFT) → 상신(SUBMITTED) → 승인(APPROVED)으로 흐르고,
// 상신 상태에서 반려(REJECTED)될 수 있다. 승인된 문서는 별도의 확정
// 잠금(isFinalApproved)으로 편집이 제한된다.
package approval

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

var (
	ErrNotEditable             = errors.New("작성중이거나 반려된 근무표만 수정할 수 있습니다")
	ErrNotSubmitted            = errors.New("상신된 근무표가 아닙니다")
	ErrCreatorSignRequired     = errors.New("상신 전에 기안자 서명이 필요합니다")
	ErrApprovalLineRequired    = errors.New("결재선을 선택해 주세요")
	ErrDeptHeadUnresolved      = errors.New("결재선에 포함된 부서장이 지정되지 않았습니다")
	ErrDeptHeadDiscardConfirm  = errors.New("선택해 둔 부서장이 결재선에 없습니다. 부서장 지정을 삭제하려면 확인이 필요합니다")
	ErrStepNotFound            = errors.New("결재 단계를 찾을 수 없습니다")
	ErrNotYourStep             = errors.New("본인에게 지정된 결재 단계가 아닙니다")
	ErrNotCurrentStep          = errors.New("아직 차례가 되지 않은 결재 단계입니다")
	ErrFinalApprovedStep       = errors.New("전결 처리된 단계는 서명하거나 취소할 수 없습니다")
	ErrRejectionReasonRequired = errors.New("반려 사유를 입력해 주세요")
	ErrNotApproved             = errors.New("승인된 근무표가 아닙니다")
)

// LineStep 은 상신 시 선택하는 결재선의 한 단계이다.
type LineStep struct {
	Kind         domain.StepKind
	ApproverID   *int64
	ApproverName string
}

// Machine 은 근무표 하나와 그 결재 단계들을 묶어 상태 전이를 수행한다.
// 네트워크나 저장소를 모르는 순수 상태 기계이며, 변경된 문서와 단계의
// 저장은 호출자의 몫이다.
type Machine struct {
	Schedule *domain.WorkSchedule
	Steps    []*domain.ApprovalStep
}

func New(schedule *domain.WorkSchedule, steps []*domain.ApprovalStep) *Machine {
	sorted := make([]*domain.ApprovalStep, len(steps))
	copy(sorted, steps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StepOrder < sorted[j].StepOrder
	})
	return &Machine{Schedule: schedule, Steps: sorted}
}

func (m *Machine) creatorStep() *domain.ApprovalStep {
	for _, step := range m.Steps {
		if step.Kind == domain.StepKindCreator {
			return step
		}
	}
	return nil
}

func (m *Machine) findStep(order int32) *domain.ApprovalStep {
	for _, step := range m.Steps {
		if step.StepOrder == order {
			return step
		}
	}
	return nil
}

// editable 은 기안자가 문서를 고칠 수 있는 상태인지 여부이다.
func (m *Machine) editable() bool {
	return m.Schedule.Status == domain.ScheduleStatusDraft ||
		m.Schedule.Status == domain.ScheduleStatusRejected
}

// ToggleCreatorSign 은 기안자 서명을 토글한다. 상신 전에만 가능하며,
// 이미 서명되어 있으면 서명을 해제한다.
func (m *Machine) ToggleCreatorSign(creatorID int64, signatureRef string, now time.Time) error {
	if !m.editable() {
		return ErrNotEditable
	}

	creator := m.creatorStep()
	if creator == nil {
		// 기안자 단계가 없으면 만들어 준다. 문서 생성 직후의 경로이다.
		creator = &domain.ApprovalStep{
			WorkScheduleID: m.Schedule.ID,
			Kind:           domain.StepKindCreator,
			StepOrder:      0,
			ApproverID:     &creatorID,
		}
		m.Steps = append([]*domain.ApprovalStep{creator}, m.Steps...)
	}

	if creator.Signed() {
		creator.SignatureRef = nil
		creator.SignedAt = nil
		return nil
	}

	creator.SignatureRef = &signatureRef
	signedAt := now
	creator.SignedAt = &signedAt
	return nil
}

// Submit 은 결재선을 확정하고 문서를 상신한다. confirmDiscardDeptHead 는
// 이전에 지정해 둔 부서장이 새 결재선에 없을 때 삭제를 확인했다는 뜻이다.
func (m *Machine) Submit(line []LineStep, confirmDiscardDeptHead bool, now time.Time) error {
	if !m.editable() {
		return ErrNotEditable
	}

	creator := m.creatorStep()
	if creator == nil || !creator.Signed() {
		return ErrCreatorSignRequired
	}

	if len(line) == 0 {
		return ErrApprovalLineRequired
	}

	lineHasDeptHead := false
	for _, step := range line {
		if step.Kind == domain.StepKindDeptHead {
			lineHasDeptHead = true
			if step.ApproverID == nil {
				return ErrDeptHeadUnresolved
			}
		}
	}

	// 이전에 부서장을 지정해 두었는데 새 결재선에 부서장 단계가 없으면
	// 지정을 버린다는 확인을 받아야 한다.
	if !lineHasDeptHead && !confirmDiscardDeptHead {
		for _, step := range m.Steps {
			if step.Kind == domain.StepKindDeptHead && step.ApproverID != nil {
				return ErrDeptHeadDiscardConfirm
			}
		}
	}

	steps := []*domain.ApprovalStep{creator}
	for i, ls := range line {
		kind := ls.Kind
		if kind == domain.StepKindDeptHead {
			// 부서장이 확정되었으므로 자리표시자가 아니라 일반 결재자이다.
			kind = domain.StepKindApprover
		}
		steps = append(steps, &domain.ApprovalStep{
			WorkScheduleID: m.Schedule.ID,
			Kind:           kind,
			StepOrder:      int32(i + 1),
			ApproverID:     ls.ApproverID,
			ApproverName:   ls.ApproverName,
			IsCurrent:      i == 0,
		})
	}

	creator.IsRejected = false
	creator.RejectionReason = ""
	creator.RejectedBy = nil

	m.Steps = steps
	m.Schedule.Status = domain.ScheduleStatusSubmitted
	return nil
}

// hasFinalApprovedStep 은 전결 처리된 단계가 있는지 여부이다.
func (m *Machine) hasFinalApprovedStep() bool {
	for _, step := range m.Steps {
		if step.IsFinalApproved {
			return true
		}
	}
	return false
}

// SignStep 은 지정된 결재자가 자기 단계에 서명하거나, 이미 서명한 현재
// 단계의 서명을 취소한다.
func (m *Machine) SignStep(actorID int64, stepOrder int32, signatureRef string, now time.Time) error {
	if m.Schedule.Status != domain.ScheduleStatusSubmitted &&
		m.Schedule.Status != domain.ScheduleStatusApproved {
		return ErrNotSubmitted
	}

	step := m.findStep(stepOrder)
	if step == nil || step.Kind == domain.StepKindCreator {
		return ErrStepNotFound
	}
	if step.ApproverID == nil || *step.ApproverID != actorID {
		return ErrNotYourStep
	}

	// 전결된 문서에서는 어느 단계도 서명하거나 취소할 수 없다.
	// 되돌리려면 반려 절차를 거쳐야 한다.
	if m.hasFinalApprovedStep() {
		return ErrFinalApprovedStep
	}

	if step.Signed() {
		// 서명 취소: 이후 단계가 이미 서명했다면 되돌릴 수 없다.
		for _, later := range m.Steps {
			if later.StepOrder > stepOrder && later.Signed() {
				return fmt.Errorf("이후 단계(%s)가 이미 서명해서 취소할 수 없습니다", later.ApproverName)
			}
		}
		step.SignatureRef = nil
		step.SignedAt = nil
		m.setCurrent(stepOrder)
		m.Schedule.Status = domain.ScheduleStatusSubmitted
		return nil
	}

	if !step.IsCurrent {
		return ErrNotCurrentStep
	}

	step.SignatureRef = &signatureRef
	signedAt := now
	step.SignedAt = &signedAt
	m.advance(stepOrder)
	return nil
}

// FinalApprove 는 전결 권한 보유자가 자기 단계를 전결 처리한다. 서명되지
// 않은 나머지 단계들은 앞뒤를 가리지 않고 생략되고 문서는 곧바로
// 승인된다.
func (m *Machine) FinalApprove(actorID int64, stepOrder int32, signatureRef string, now time.Time) error {
	if m.Schedule.Status != domain.ScheduleStatusSubmitted {
		return ErrNotSubmitted
	}

	step := m.findStep(stepOrder)
	if step == nil || step.Kind == domain.StepKindCreator {
		return ErrStepNotFound
	}
	if step.ApproverID == nil || *step.ApproverID != actorID {
		return ErrNotYourStep
	}

	step.IsFinalApproved = true
	step.SignatureRef = &signatureRef
	signedAt := now
	step.SignedAt = &signedAt

	for _, s := range m.Steps {
		s.IsCurrent = false
	}

	m.Schedule.Status = domain.ScheduleStatusApproved
	return nil
}

// Reject 는 문서를 반려한다. force 는 승인 완료된 문서를 수정하도록 되돌릴
// 수 있는 관리 권한이 확인되었다는 뜻이다.
func (m *Machine) Reject(actorID int64, stepOrder int32, reason string, force bool, now time.Time) error {
	if reason == "" {
		return ErrRejectionReasonRequired
	}

	switch m.Schedule.Status {
	case domain.ScheduleStatusSubmitted:
	case domain.ScheduleStatusApproved:
		if !force {
			return ErrNotSubmitted
		}
	default:
		return ErrNotSubmitted
	}

	step := m.findStep(stepOrder)
	if step == nil || step.Kind == domain.StepKindCreator {
		return ErrStepNotFound
	}

	// 지정된 결재자만 자기 단계에서 반려할 수 있다. force 는 관리 권한이
	// 확인된 경우에만 넘어온다.
	if !force && (step.ApproverID == nil || *step.ApproverID != actorID) {
		return ErrNotYourStep
	}

	step.IsRejected = true
	step.RejectionReason = reason
	step.RejectedBy = &actorID

	for _, s := range m.Steps {
		s.IsCurrent = false
	}

	// 반려되면 확정 잠금도 해제해서 기안자가 고칠 수 있게 한다.
	m.Schedule.IsFinalApproved = false
	m.Schedule.FinalApproverID = nil
	m.Schedule.FinalApprovedAt = nil
	m.Schedule.Status = domain.ScheduleStatusRejected
	return nil
}

// ToggleFinalLock 은 승인된 문서의 확정 잠금을 토글한다. 잠긴 동안에는
// 더 넓은 관리 권한만 편집할 수 있고, 해제하면 부서 관리자의 편집 권한이
// 돌아온다.
func (m *Machine) ToggleFinalLock(actorID int64, now time.Time) error {
	if m.Schedule.Status != domain.ScheduleStatusApproved {
		return ErrNotApproved
	}

	if m.Schedule.IsFinalApproved {
		m.Schedule.IsFinalApproved = false
		m.Schedule.FinalApproverID = nil
		m.Schedule.FinalApprovedAt = nil
		return nil
	}

	m.Schedule.IsFinalApproved = true
	m.Schedule.FinalApproverID = &actorID
	lockedAt := now
	m.Schedule.FinalApprovedAt = &lockedAt
	return nil
}

// CanEdit 은 사용자가 지금 이 근무표를 편집할 수 있는지 판단한다.
func (m *Machine) CanEdit(user *domain.User) bool {
	if user.Role == domain.RoleHRAdmin {
		return true
	}

	sameDept := user.DepartmentID != nil && *user.DepartmentID == m.Schedule.DepartmentID

	switch m.Schedule.Status {
	case domain.ScheduleStatusDraft, domain.ScheduleStatusRejected:
		return sameDept && (user.ID == m.Schedule.CreatedBy || user.Role == domain.RoleDeptManager)
	case domain.ScheduleStatusApproved:
		// 확정 잠금 중에는 인사관리자만 편집할 수 있다.
		if m.Schedule.IsFinalApproved {
			return false
		}
		return sameDept && user.Role == domain.RoleDeptManager
	default:
		return false
	}
}

// setCurrent 는 지정된 순번만 현재 단계로 표시한다.
func (m *Machine) setCurrent(order int32) {
	for _, step := range m.Steps {
		step.IsCurrent = step.StepOrder == order
	}
}

// advance 는 서명이 끝난 단계 다음의 미충족 단계로 현재 표시를 옮기고,
// 남은 단계가 없으면 문서를 승인한다.
func (m *Machine) advance(signedOrder int32) {
	for _, step := range m.Steps {
		step.IsCurrent = false
	}

	if next := m.firstUnsatisfiedAfter(signedOrder); next != nil {
		next.IsCurrent = true
		return
	}

	m.Schedule.Status = domain.ScheduleStatusApproved
}

func (m *Machine) firstUnsatisfiedAfter(order int32) *domain.ApprovalStep {
	for _, step := range m.Steps {
		if step.StepOrder <= order || step.Kind == domain.StepKindCreator {
			continue
		}
		if !step.Signed() {
			return step
		}
	}
	return nil
}
