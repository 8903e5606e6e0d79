package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/company"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/event"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/interview"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/matching"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/paging"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/profile"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/research"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/selection"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/task"
	"github.com/iorihayakawa-tokyohac/students-recruit-dashboard-app-sub000/internal/core/user"
)

var invalidArgumentErrors = []error{
	paging.ErrInvalidPageSize,
	paging.ErrInvalidPageToken,
	user.ErrInvalidEmail,
	user.ErrInvalidName,
	user.ErrInvalidStatus,
	user.ErrInvalidID,
	company.ErrInvalidName,
	company.ErrInvalidURL,
	company.ErrInvalidPriority,
	company.ErrInvalidStatus,
	company.ErrInvalidID,
	company.ErrInvalidUserID,
	selection.ErrInvalidID,
	selection.ErrInvalidCompanyID,
	selection.ErrInvalidUserID,
	selection.ErrInvalidName,
	selection.ErrInvalidStatus,
	selection.ErrInvalidOrder,
	selection.ErrInvalidReorder,
	task.ErrInvalidID,
	task.ErrInvalidUserID,
	task.ErrInvalidTitle,
	task.ErrInvalidCategory,
	task.ErrInvalidStatus,
	event.ErrInvalidID,
	event.ErrInvalidUserID,
	event.ErrInvalidTitle,
	event.ErrInvalidKind,
	event.ErrInvalidTimeRange,
	event.ErrInvalidReminder,
	interview.ErrInvalidID,
	interview.ErrInvalidUserID,
	interview.ErrInvalidCompanyID,
	interview.ErrInvalidTitle,
	interview.ErrInvalidFormat,
	research.ErrInvalidUserID,
	research.ErrInvalidCompanyID,
	research.ErrInvalidSection,
	research.ErrSectionTooLong,
	profile.ErrInvalidUserID,
	profile.ErrInvalidGraduationYear,
	profile.ErrTooManyItems,
	matching.ErrInvalidUserID,
	matching.ErrInvalidCompanyID,
}

var notFoundErrors = []error{
	user.ErrUserNotFound,
	company.ErrCompanyNotFound,
	selection.ErrStepNotFound,
	selection.ErrCompanyNotFound,
	task.ErrTaskNotFound,
	task.ErrCompanyNotFound,
	event.ErrEventNotFound,
	event.ErrCompanyNotFound,
	interview.ErrNoteNotFound,
	interview.ErrCompanyNotFound,
	interview.ErrStepNotFound,
	research.ErrResearchNotFound,
	research.ErrCompanyNotFound,
	profile.ErrProfileNotFound,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// toStatusError はドメインエラーを gRPC ステータスへ変換します。
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case isAny(err, invalidArgumentErrors):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case isAny(err, notFoundErrors):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, matching.ErrProfileIncomplete):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, selection.ErrStorageUnavailable),
		errors.Is(err, matching.ErrAIDisabled),
		errors.Is(err, matching.ErrGenerationFailed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
