package domain

import "errors"

// Access control.
var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrResourceForbidden = errors.New("resource forbidden")
	ErrUnknownRole       = errors.New("unknown role")
	ErrNoPermissionRule  = errors.New("no permission rule for resource type")
)

// Users and credentials.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrRoleNotAssignable  = errors.New("role cannot be self-assigned")
)

// Marketplace resources.
var (
	ErrAppNotFound       = errors.New("app not found")
	ErrAppNotReviewable  = errors.New("app is not open for reviews")
	ErrReviewNotFound    = errors.New("review not found")
	ErrReviewExists      = errors.New("review already submitted for this app")
	ErrInvalidTransition = errors.New("invalid status transition")
)
