package research

import "time"

// Section は企業研究シートの項目です。
type Section string

const (
	SectionBusiness   Section = "business"
	SectionProducts   Section = "products"
	SectionCulture    Section = "culture"
	SectionCareer     Section = "career"
	SectionMotivation Section = "motivation"
	SectionQuestions  Section = "questions"
)

// Sections は研究シートの全項目を表示順に並べたものです。
var Sections = []Section{
	SectionBusiness,
	SectionProducts,
	SectionCulture,
	SectionCareer,
	SectionMotivation,
	SectionQuestions,
}

// Research は企業ごとの研究シートです。利用者と企業の組につき一件です。
type Research struct {
	UserID    string
	CompanyID string
	Sections  map[Section]string
	UpdatedAt time.Time
}

func (s Section) Valid() bool {
	switch s {
	case SectionBusiness, SectionProducts, SectionCulture, SectionCareer, SectionMotivation, SectionQuestions:
		return true
	default:
		return false
	}
}

// CompletionRate は記入済み項目の割合を 0 から 1 で返します。
func (r *Research) CompletionRate() float64 {
	if r == nil {
		return 0
	}
	filled := 0
	for _, s := range Sections {
		if r.Sections[s] != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(Sections))
}
