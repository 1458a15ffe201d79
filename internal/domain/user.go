package domain

import (
	"time"
)

type Role string

const (
	RoleStaff       Role = "직원"
	RoleDeptManager Role = "부서관리자"
	RoleHRAdmin     Role = "인사관리자"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	DepartmentID *int64    `json:"departmentID"`
	SignatureRef *string   `json:"signatureRef"` // 서명 이미지 오브젝트 키
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ManagerID *int64    `json:"managerID"` // 부서장, 미지정일 수 있음
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Position struct {
	ID           int64  `json:"id"`
	DepartmentID int64  `json:"departmentID"`
	Name         string `json:"name"`
}
