package storage_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"page-store/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"NoSuchKey", minio.ErrorResponse{Code: minio.NoSuchKey, StatusCode: http.StatusNotFound}, true},
		{"HeadNotFound", minio.ErrorResponse{Code: "NotFound"}, true},
		{"BareStatus", minio.ErrorResponse{StatusCode: http.StatusNotFound}, true},
		{"Wrapped", fmt.Errorf("get: %w", minio.ErrorResponse{Code: minio.NoSuchKey}), true},
		{"NoSuchBucket", minio.ErrorResponse{Code: minio.NoSuchBucket, StatusCode: http.StatusNotFound}, false},
		{"AccessDenied", minio.ErrorResponse{Code: minio.AccessDenied, StatusCode: http.StatusForbidden}, false},
		{"Plain", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.IsNotFound(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, minio.AccessDenied, storage.ErrorCode(fmt.Errorf("x: %w", minio.ErrorResponse{Code: minio.AccessDenied})))
	assert.Equal(t, "", storage.ErrorCode(errors.New("boom")))
}
