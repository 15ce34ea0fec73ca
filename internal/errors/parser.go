package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo carries a stable code and a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError translates store-level errors into a taxonomy code and a
// message safe to show callers. Internal detail never leaks; anything
// unrecognized becomes a generic internal error.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL driver errors carry SQLSTATE codes.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return parseDuplicateKeyError(pqErr.Error(), context)
		case "23503": // foreign_key_violation
			return ErrorInfo{
				Code:    ResourceNotFound,
				Message: "Referenced record does not exist",
			}
		case "23502": // not_null_violation
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "A required field is missing",
			}
		}
	}

	// String fallback covers drivers without typed errors (sqlite in tests).
	errStrLower := strings.ToLower(err.Error())
	if strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(err.Error(), context)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Referenced record does not exist",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An unexpected error occurred. Please try again later",
	}
}

// parseDuplicateKeyError resolves which uniqueness invariant was violated
// from the constraint or column named in the driver message.
func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "username") || strings.Contains(errLower, "user_name") {
		return ErrorInfo{
			Code:    AuthUsernameExists,
			Message: "Username is already taken",
		}
	}

	if strings.Contains(errLower, "comments") {
		return ErrorInfo{
			Code:    CommentAlreadyExists,
			Message: "You have already commented on this service",
		}
	}

	if strings.Contains(errLower, "favorite") {
		return ErrorInfo{
			Code:    FavoriteAlreadyExists,
			Message: "Service is already in your favorites",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Record already exists",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "service") {
		return "Service not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "comment") {
		return "Comment not found"
	}
	if strings.Contains(contextLower, "favorite") {
		return "Favorite not found"
	}
	if strings.Contains(contextLower, "admin") {
		return "Administrator not found"
	}

	return "Requested record not found"
}
