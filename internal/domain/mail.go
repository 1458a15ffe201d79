package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ApprovalRequestedMailData struct {
	ApproverName string `json:"approverName"`
	CreatorName  string `json:"creatorName"`
	Department   string `json:"department"`
	YearMonth    string `json:"yearMonth"`
}

type ScheduleRejectedMailData struct {
	CreatorName     string `json:"creatorName"`
	RejectorName    string `json:"rejectorName"`
	Department      string `json:"department"`
	YearMonth       string `json:"yearMonth"`
	RejectionReason string `json:"rejectionReason"`
}

type ScheduleApprovedMailData struct {
	CreatorName string `json:"creatorName"`
	Department  string `json:"department"`
	YearMonth   string `json:"yearMonth"`
}

// PDFJobMessage 는 PDF 생성 워커에 전달되는 작업 메시지이다.
// 렌더링 자체는 외부 워커의 몫이고 API 는 작업 발행과 상태 조회만 담당한다.
type PDFJobMessage struct {
	JobID          string `json:"jobID"`
	WorkScheduleID int64  `json:"workScheduleID"`
	RequestedBy    int64  `json:"requestedBy"`
}
