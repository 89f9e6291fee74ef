package signature

import "fmt"

// ValidationError means a required identifier is missing or the image payload
// is malformed. Raised before any network call, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// UploadError means the object-store write failed. Surfaced to the caller;
// there is no silent local-only fallback.
type UploadError struct {
	Bucket string
	Object string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s to bucket %s: %v", e.Object, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PersistError means the record insert failed after a successful upload.
// URL carries the otherwise-orphaned object so an operator can reconcile.
type PersistError struct {
	URL string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist signature record (orphaned object at %s): %v", e.URL, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
