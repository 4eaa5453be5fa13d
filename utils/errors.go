package utils

import "fmt"

// WrapUploadError returns a wrapped upload error
func WrapUploadError(err error) error {
	return fmt.Errorf("upload error: %w", err)
}

// WrapMetadataError returns a wrapped metadata error
func WrapMetadataError(err error) error {
	return fmt.Errorf("metadata error: %w", err)
}

// WrapRetrieveError returns a wrapped retrieve error
func WrapRetrieveError(err error) error {
	return fmt.Errorf("retrieve error: %w", err)
}

// WrapRemoveError returns a wrapped remove error
func WrapRemoveError(err error) error {
	return fmt.Errorf("remove error: %w", err)
}

// WrapOverwriteError returns a wrapped overwrite error
func WrapOverwriteError(err error) error {
	return fmt.Errorf("overwrite error: %w", err)
}

// WrapStoreError returns a wrapped store error
func WrapStoreError(err error) error {
	return fmt.Errorf("store error: %w", err)
}

// WrapLogoutError returns a wrapped logout error
func WrapLogoutError(err error) error {
	return fmt.Errorf("logout error: %w", err)
}
