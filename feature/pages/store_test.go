package pages_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"page-store/core/storage"

	"github.com/minio/minio-go/v7"
)

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

type failure struct {
	remaining int
	err       error
}

// memStore is an in-memory storage.Client with failure and latency injection.
type memStore struct {
	mu       sync.Mutex
	objects  map[string]object
	failures map[string]*failure
	delays   map[string]time.Duration
	calls    map[string]int
	closed   int
}

var _ storage.Client = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		objects:  make(map[string]object),
		failures: make(map[string]*failure),
		delays:   make(map[string]time.Duration),
		calls:    make(map[string]int),
	}
}

func noSuchKey(key string) error {
	return minio.ErrorResponse{Code: minio.NoSuchKey, StatusCode: http.StatusNotFound, Key: key}
}

// fail makes the next n calls of op on key return err. An empty key matches any key.
func (s *memStore) fail(op, key string, n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op+":"+key] = &failure{remaining: n, err: err}
}

func (s *memStore) delay(key string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[key] = d
}

func (s *memStore) seed(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: data}
}

func (s *memStore) object(key string) (object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj, ok
}

func (s *memStore) callCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *memStore) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// enter records a call and returns an injected failure, if any.
func (s *memStore) enter(op, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	for _, k := range []string{op + ":" + key, op + ":"} {
		if f, ok := s.failures[k]; ok && f.remaining > 0 {
			f.remaining--
			return 0, f.err
		}
	}
	return s.delays[key], nil
}

func (s *memStore) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if _, err := s.enter("put", objectName); err != nil {
		return minio.UploadInfo{}, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = object{data: data, contentType: opts.ContentType, metadata: opts.UserMetadata}
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (s *memStore) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	wait, err := s.enter("get", objectName)
	if err != nil {
		return nil, err
	}
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// Like minio, absence surfaces on the first Read rather than from the call.
	obj, ok := s.object(objectName)
	if !ok {
		return io.NopCloser(errReader{err: noSuchKey(objectName)}), nil
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *memStore) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if _, err := s.enter("stat", objectName); err != nil {
		return minio.ObjectInfo{}, err
	}
	obj, ok := s.object(objectName)
	if !ok {
		return minio.ObjectInfo{}, noSuchKey(objectName)
	}
	return minio.ObjectInfo{Key: objectName, Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}

func (s *memStore) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	_, err := s.enter("list", opts.Prefix)

	s.mu.Lock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	s.mu.Unlock()
	sort.Strings(keys)

	go func() {
		defer close(ch)
		if err != nil {
			select {
			case ch <- minio.ObjectInfo{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		for _, k := range keys {
			select {
			case ch <- minio.ObjectInfo{Key: k}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (s *memStore) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	if _, err := s.enter("remove", objectName); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	return nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}
