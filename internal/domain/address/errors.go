package address

import (
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

var (
	ErrNotFound       = errorx.NewResourceNotFound("email address")
	ErrDuplicateEmail = errorx.NewDuplicateEntryWithField("email address", "email")
	ErrNotVerified    = errorx.NewBusinessRuleViolation()
	// ErrPrimaryConflict surfaces when the one-primary-per-user index fires
	// under concurrent promotions.
	ErrPrimaryConflict = errorx.NewBusinessRuleViolation()
	ErrUserNotFound    = errorx.NewResourceNotFound("user")
)
