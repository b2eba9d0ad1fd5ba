package confirmation

import (
	"gitlab.com/verimail/verimail-backend/pkg/errorx"
)

var (
	ErrKeyNotFound = errorx.NewResourceNotFound("confirmation key")
	// ErrKeyExpired maps to not found on purpose, expired and unknown keys
	// must look the same to callers.
	ErrKeyExpired = errorx.NewResourceNotFound("confirmation key")
)
