package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// practiceIDRegex matches valid practice identifiers: lowercase kebab-case
// slugs such as "continuous-delivery" or "trunk-based-development".
var practiceIDRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidatePracticeID validates a practice identifier for safety and
// correctness. It rejects identifiers that could be used for path traversal
// or injection when the id is interpolated into queries, cache keys, or URLs.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Lowercase kebab-case only
//   - Maximum length of 128 characters
func ValidatePracticeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPractice, "practice id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPractice, "practice id too long (max 128 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPractice, "practice id contains invalid control characters")
		}
	}

	if !practiceIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPractice, "invalid practice id: %q", id)
	}

	return nil
}

// ValidateMaturityLevel validates a practice maturity level.
// Levels are small positive integers; zero means unranked.
func ValidateMaturityLevel(level int) error {
	if level < 0 {
		return New(ErrCodeInvalidPractice, "maturity level cannot be negative: %d", level)
	}
	if level > 10 {
		return New(ErrCodeInvalidPractice, "maturity level out of range (max 10): %d", level)
	}
	return nil
}

// ValidateExportFilename validates an adoption export filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateExportFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidExport, "export filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidExport, "export filename cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidExport, "export filename cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
