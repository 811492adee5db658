package storage

import (
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"
)

// ErrCredentials is returned by NewClient when no credentials could be resolved.
var ErrCredentials = errors.New("storage: credentials not found")

// IsNotFound reports whether err is the store confirming that a key does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch resp.Code {
	case minio.NoSuchKey, "NotFound":
		return true
	}
	// HEAD responses carry no body, only the status.
	return resp.Code == "" && resp.StatusCode == http.StatusNotFound
}

// ErrorCode returns the store error code carried by err, or "" if there is none.
func ErrorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return ""
}
