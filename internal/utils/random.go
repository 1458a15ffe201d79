package utils

import (
	"math/rand"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hanul-soft/hr-portal/backend/internal/domain"
)

var commonSurnames = []string{
	"김", "이", "박", "최", "정", "강", "조", "윤", "장", "임",
	"한", "오", "서", "신", "권", "황", "안", "송", "류", "전",
}
var commonNameSyllables = []string{
	"민", "서", "지", "현", "수", "영", "은", "주", "하", "윤",
	"준", "우", "진", "혜", "경", "태", "성", "연", "정", "호",
}

// 음절별 로마자 표기. 시드 계정의 아이디 생성에만 쓰인다.
var romanized = map[string]string{
	"김": "kim", "이": "lee", "박": "park", "최": "choi", "정": "jung",
	"강": "kang", "조": "cho", "윤": "yoon", "장": "jang", "임": "lim",
	"한": "han", "오": "oh", "서": "seo", "신": "shin", "권": "kwon",
	"황": "hwang", "안": "ahn", "송": "song", "류": "ryu", "전": "jeon",
	"민": "min", "지": "ji", "현": "hyun", "수": "soo", "영": "young",
	"은": "eun", "주": "joo", "하": "ha", "준": "jun", "우": "woo",
	"진": "jin", "혜": "hye", "경": "kyung", "태": "tae", "성": "sung",
	"연": "yeon", "호": "ho",
}

func GenerateRandomKoreanName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	name := surname
	for i := 0; i < 2; i++ {
		name += commonNameSyllables[rand.Intn(len(commonNameSyllables))]
	}
	return name
}

var digits = "0123456789"

func GenerateUsernameFromKoreanName(koreanName string) string {
	username := ""
	for _, syllable := range koreanName {
		if roman, ok := romanized[string(syllable)]; ok {
			username += roman
		}
	}
	if username == "" {
		username = "user"
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var roles = []domain.Role{
	domain.RoleStaff,
	domain.RoleStaff,
	domain.RoleStaff,
	domain.RoleDeptManager,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

func GenerateRandomUser(password string, emailDomainName string, departmentID int64) (*domain.User, error) {
	fullName := GenerateRandomKoreanName()
	username := GenerateUsernameFromKoreanName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
		DepartmentID: &departmentID,
	}

	return user, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var shiftCodes = []string{"D", "D1", "E", "N", "Off", "", ""}

// GenerateRandomAssignment 은 시드용으로 한 달치 근무 데이터를 만든다.
func GenerateRandomAssignment(year int, month time.Month) domain.ShiftAssignment {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	a := domain.ShiftAssignment{}
	for day := 1; day <= lastDay; day++ {
		a[strconv.Itoa(day)] = shiftCodes[rand.Intn(len(shiftCodes))]
	}
	return a
}
