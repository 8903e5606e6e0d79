package selection

import (
	"cmp"
	"slices"
	"time"
)

const (
	// ProgressNotEntered はステップが一つも無い企業のステータスです。
	ProgressNotEntered = "未エントリー"
	// ProgressRejected は不合格で選考が終了した企業のステータスです。
	ProgressRejected = "不合格"
	// ProgressOffer は内定を得た企業のステータスです。
	ProgressOffer = "内定"
)

// Progress は選考ステップから導出される企業の進捗です。
type Progress struct {
	Status       string
	NextStep     *string
	NextDeadline *time.Time
}

// DeriveProgress は企業の選考ステップ集合から進捗を導出します。
// 入力の並び順には依存せず、(Order, ID) の昇順に並べ替えた結果を評価します。
// 入力スライスは変更しません。
func DeriveProgress(steps []*Step) Progress {
	sorted := make([]*Step, 0, len(steps))
	for _, s := range steps {
		if s != nil {
			sorted = append(sorted, s)
		}
	}

	if len(sorted) == 0 {
		return Progress{Status: ProgressNotEntered}
	}

	slices.SortFunc(sorted, compareSteps)

	for i, s := range sorted {
		if s.Status == StepStatusFailed && allNotStarted(sorted[i+1:]) {
			return Progress{Status: ProgressRejected}
		}
	}

	for _, s := range sorted {
		if s.Status == StepStatusPassed && s.IsOffer() {
			return Progress{Status: ProgressOffer}
		}
	}

	for _, s := range sorted {
		if s.Status != StepStatusPassed {
			name := s.Name
			return Progress{
				Status:       name,
				NextStep:     &name,
				NextDeadline: cloneTime(s.PlannedDate),
			}
		}
	}

	return Progress{Status: sorted[len(sorted)-1].Name}
}

// SortSteps はステップを (Order, ID) の昇順に並べ替えます。
func SortSteps(steps []*Step) {
	slices.SortFunc(steps, compareSteps)
}

func compareSteps(a, b *Step) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func allNotStarted(steps []*Step) bool {
	for _, s := range steps {
		if s.Status != StepStatusNotStarted {
			return false
		}
	}
	return true
}
