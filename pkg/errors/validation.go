package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds element names and token paths.
const maxNameLength = 256

// reservedNames resolve to relative element references in expressions and
// cannot name an element.
var reservedNames = map[string]bool{
	"Parent":   true,
	"Previous": true,
	"Next":     true,
}

// elementNameRegex matches names usable as `Name.property` references.
var elementNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateElementName validates an element name. Empty names are allowed;
// the constraint builder generates one.
//
// Names must:
//   - Start with a letter or underscore
//   - Contain only letters, digits, underscores and dashes
//   - Not be Parent, Previous or Next
//   - Be at most 256 characters
func ValidateElementName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidDocument, "element name too long (max %d characters)", maxNameLength)
	}
	if reservedNames[name] {
		return New(ErrCodeInvalidDocument, "element name %q is reserved", name)
	}
	if !elementNameRegex.MatchString(name) {
		return New(ErrCodeInvalidDocument, "invalid element name: %q", name)
	}
	return nil
}

// ValidateTokenPath validates a dotted design token path such as
// "spacing.md".
func ValidateTokenPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidDocument, "token path cannot be empty")
	}
	if len(path) > maxNameLength {
		return New(ErrCodeInvalidDocument, "token path too long (max %d characters)", maxNameLength)
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return New(ErrCodeInvalidDocument, "token path %q has an empty segment", path)
		}
		for _, r := range seg {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
				return New(ErrCodeInvalidDocument, "token path %q contains invalid character %q", path, r)
			}
		}
	}
	return nil
}
