package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates a user-supplied identifier (series name, axes label,
// backend name). It rejects names that would corrupt generated markup or logs.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSpec, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidSpec, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSpec, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateExportPath validates a destination path for an export request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateExportPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "export path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "export path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "export path contains invalid characters")
		}
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidPath, "export path contains null bytes")
	}

	return nil
}
