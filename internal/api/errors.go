package api

import (
	"errors"

	"google.golang.org/grpc/codes"

	"github.com/dmitrijs2005/taskledger/internal/common"
)

// ErrorDomain is the errdetails.ErrorInfo domain of every domain error.
const ErrorDomain = "taskledger"

// ErrorMapping ties a sentinel to its status code and stable reason.
type ErrorMapping struct {
	Err    error
	Code   codes.Code
	Reason string
}

// Errors is matched in order with errors.Is.
var Errors = []ErrorMapping{
	{common.ErrAccessDenied, codes.PermissionDenied, "ACCESS_DENIED"},
	{common.ErrInvalidIdentity, codes.InvalidArgument, "INVALID_IDENTITY"},
	{common.ErrRoleRequired, codes.InvalidArgument, "ROLE_REQUIRED"},
	{common.ErrEmptyName, codes.InvalidArgument, "EMPTY_NAME"},
	{common.ErrEmptyTitle, codes.InvalidArgument, "EMPTY_TITLE"},
	{common.ErrInvalidStatus, codes.InvalidArgument, "INVALID_STATUS"},
	{common.ErrInvalidAmount, codes.InvalidArgument, "INVALID_AMOUNT"},
	{common.ErrorNotFound, codes.NotFound, "NOT_FOUND"},
	{common.ErrUnknownAssignee, codes.NotFound, "UNKNOWN_ASSIGNEE"},
	{common.ErrAlreadyExists, codes.AlreadyExists, "ALREADY_EXISTS"},
	{common.ErrAssigneeAlreadySet, codes.FailedPrecondition, "ASSIGNEE_ALREADY_SET"},
	{common.ErrNoAssignee, codes.FailedPrecondition, "NO_ASSIGNEE"},
	{common.ErrInvalidTransition, codes.FailedPrecondition, "INVALID_TRANSITION"},
	{common.ErrTaskCompleted, codes.FailedPrecondition, "TASK_COMPLETED"},
	{common.ErrNotInValidation, codes.FailedPrecondition, "NOT_IN_VALIDATION"},
	{common.ErrNoReward, codes.FailedPrecondition, "NO_REWARD"},
	{common.ErrSnapshotsDisabled, codes.FailedPrecondition, "SNAPSHOTS_DISABLED"},
	{common.ErrTokenExpired, codes.Unauthenticated, "TOKEN_EXPIRED"},
	{common.ErrInvalidToken, codes.Unauthenticated, "INVALID_TOKEN"},
	{common.ErrorUnauthorized, codes.Unauthenticated, "UNAUTHORIZED"},
}

// Lookup returns the mapping err matches, if any.
func Lookup(err error) (ErrorMapping, bool) {
	for _, m := range Errors {
		if errors.Is(err, m.Err) {
			return m, true
		}
	}
	return ErrorMapping{}, false
}

// ErrorForReason returns the sentinel for a wire reason, nil if unknown.
func ErrorForReason(reason string) error {
	for _, m := range Errors {
		if m.Reason == reason {
			return m.Err
		}
	}
	return nil
}
