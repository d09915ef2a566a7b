package attribute

import (
	"errors"
	"fmt"
)

// KeyErrorCode categorizes attribute lookup errors.
type KeyErrorCode string

const (
	// ErrCodeInvalidKeyType indicates a key outside the HeaderKey/LimsKey union.
	ErrCodeInvalidKeyType KeyErrorCode = "INVALID_KEY_TYPE"

	// ErrCodeMissingAttribute indicates a required attribute is absent.
	ErrCodeMissingAttribute KeyErrorCode = "MISSING_ATTRIBUTE"
)

// KeyError is returned by View lookups.
type KeyError struct {
	Code KeyErrorCode
	Key  string
	Path string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	switch e.Code {
	case ErrCodeInvalidKeyType:
		return fmt.Sprintf("%s: unsupported key type %s", e.Code, e.Key)
	default:
		return fmt.Sprintf("%s: %q is not set (path=%s)", e.Code, e.Key, e.Path)
	}
}

// IsInvalidKeyType reports whether err is an unsupported key type error.
func IsInvalidKeyType(err error) bool {
	var ke *KeyError
	if errors.As(err, &ke) {
		return ke.Code == ErrCodeInvalidKeyType
	}
	return false
}

// IsMissingAttribute reports whether err is a missing required attribute.
func IsMissingAttribute(err error) bool {
	var ke *KeyError
	if errors.As(err, &ke) {
		return ke.Code == ErrCodeMissingAttribute
	}
	return false
}
