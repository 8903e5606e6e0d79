package profile

import "time"

const (
	MinGraduationYear = 2000
	MaxGraduationYear = 2100
)

// Profile は利用者の自己分析と志望条件です。
type Profile struct {
	UserID            string
	University        *string
	Faculty           *string
	GraduationYear    *int
	DesiredIndustries []string
	DesiredJobTypes   []string
	Strengths         *string
	SelfPR            *string
	Gakuchika         *string
	UpdatedAt         time.Time
}

// IsEmpty はいずれの項目も記入されていないかを返します。
func (p *Profile) IsEmpty() bool {
	return p.University == nil && p.Faculty == nil && p.GraduationYear == nil &&
		len(p.DesiredIndustries) == 0 && len(p.DesiredJobTypes) == 0 &&
		p.Strengths == nil && p.SelfPR == nil && p.Gakuchika == nil
}
