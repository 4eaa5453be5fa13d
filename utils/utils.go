// Package utils provides validation and helper functions used across the SDK.
package utils

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// ErrBadHandle constant is returned when a file handle is malformed - handles are opaque
	// alphanumeric identifiers issued by the service
	ErrBadHandle = "file handle is invalid - must be a non-empty alphanumeric identifier"
	// ErrBadURL constant is returned when an external URL is not an absolute http(s) URL
	ErrBadURL = "external url is invalid - must be an absolute http or https url"
)

// handles are URL-safe alphanumeric ids, typically 20 characters
var handleRegex = regexp.MustCompile(`^[A-Za-z0-9]{8,64}$`)

// characters stripped from filenames before they are sent to the service
var unsafeFilenameChars = regexp.MustCompile(`[\x00-\x1f/\\:*?"<>|]`)

// ValidateHandle ensures that a file handle looks like a service-issued identifier.
func ValidateHandle(handle string) error {
	if !handleRegex.MatchString(handle) {
		return errors.New(ErrBadHandle)
	}
	return nil
}

// ValidateExternalURL ensures that a source URL is absolute http(s).
func ValidateExternalURL(rawurl string) error {
	if !strings.HasPrefix(rawurl, "http://") && !strings.HasPrefix(rawurl, "https://") {
		return errors.New(ErrBadURL)
	}
	return nil
}

// SanitizeFilename strips any directory components and characters the service
// rejects in filenames. An empty result falls back to "untitled".
func SanitizeFilename(name string) string {
	name = path.Base(filepath.ToSlash(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "untitled"
	}
	return name
}

// DetectContentType sniffs the content type from the leading bytes of a file,
// falling back to the filename extension, then to application/octet-stream.
func DetectContentType(head []byte, filename string) string {
	if len(head) > 0 {
		if ct := http.DetectContentType(head); ct != "application/octet-stream" {
			return ct
		}
	}
	if ext := filepath.Ext(filename); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}
