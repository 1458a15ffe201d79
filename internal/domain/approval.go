package domain

import "time"

// StepKind 는 결재 단계의 종류이다. 기존 구현은 순번 -1 을 부서장 자리표시자,
// 0 을 기안자로 쓰는 관례에 의존했는데 여기서는 명시적인 구분 필드로 대체한다.
type StepKind string

const (
	StepKindCreator  StepKind = "CREATOR"
	StepKindDeptHead StepKind = "DEPT_HEAD_PLACEHOLDER"
	StepKindApprover StepKind = "APPROVER"
)

type ApprovalStep struct {
	ID              int64      `json:"id"`
	WorkScheduleID  int64      `json:"workScheduleID"`
	Kind            StepKind   `json:"kind"`
	StepOrder       int32      `json:"stepOrder"` // 기안자는 0, 이후 결재자는 1부터
	ApproverID      *int64     `json:"approverID"`
	ApproverName    string     `json:"approverName"`
	SignatureRef    *string    `json:"signatureRef"`
	SignedAt        *time.Time `json:"signedAt"`
	IsCurrent       bool       `json:"isCurrent"`
	IsFinalApproved bool       `json:"isFinalApproved"` // 전결: 이전 단계를 모두 충족 처리
	IsRejected      bool       `json:"isRejected"`
	RejectionReason string     `json:"rejectionReason"`
	RejectedBy      *int64     `json:"rejectedBy"`
	Version         int32      `json:"-"`
}

// Signed 는 해당 단계에 서명이 존재하는지 여부이다.
func (s *ApprovalStep) Signed() bool {
	return s.SignatureRef != nil && s.SignedAt != nil
}
