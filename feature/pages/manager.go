package pages

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"page-store/core/codec"
	"page-store/core/retry"
	"page-store/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRegion is used when the configuration leaves the region empty.
	DefaultRegion = "us-east-1"
	// DefaultMaxKeys bounds List when the caller passes no limit.
	DefaultMaxKeys = 1000
)

// ClientFactory opens a store handle. storage.NewClient is the default.
type ClientFactory func(cfg storage.Config) (storage.Client, error)

// Option customises a Manager.
type Option func(*Manager)

// WithClientFactory replaces the function used to open the store handle.
func WithClientFactory(factory ClientFactory) Option {
	return func(m *Manager) {
		m.factory = factory
	}
}

// Manager stores and fetches page images in one bucket.
//
// It owns at most one store handle, opened lazily on first use or by Open,
// and shared by all concurrent operations until Close.
type Manager struct {
	cfg         storage.Config
	bucket      string
	encoder     *codec.Encoder
	policy      retry.Policy
	concurrency int
	logger      *zap.Logger
	factory     ClientFactory

	mu     sync.Mutex
	client storage.Client
}

// NewManager validates cfg and returns an unopened Manager.
func NewManager(cfg storage.Config, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, newError(KindConfiguration, "new", "", errors.New("bucket name cannot be empty"))
	}
	encoder, err := codec.NewEncoder(cfg.Quality)
	if err != nil {
		return nil, newError(KindConfiguration, "new", "", err)
	}
	if cfg.MaxRetries < 0 {
		return nil, newError(KindConfiguration, "new", "", fmt.Errorf("max retries must be non-negative: %d", cfg.MaxRetries))
	}
	if cfg.Concurrency < 0 {
		return nil, newError(KindConfiguration, "new", "", fmt.Errorf("concurrency must be non-negative: %d", cfg.Concurrency))
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = DefaultRegion
	}
	cfg.Bucket = bucket

	m := &Manager{
		cfg:         cfg,
		bucket:      bucket,
		encoder:     encoder,
		policy:      retry.Policy{MaxRetries: cfg.MaxRetries, Unit: cfg.RetryUnit},
		concurrency: cfg.Concurrency,
		logger:      logger.With(zap.String("bucket", bucket)),
		factory:     storage.NewClient,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Bucket returns the bucket the manager operates on.
func (m *Manager) Bucket() string {
	return m.bucket
}

// Open creates the store handle if none is live. It is a no-op otherwise.
// On failure the manager stays closed and the next operation tries again.
func (m *Manager) Open() error {
	_, err := m.handle()
	return err
}

// Close releases the store handle. Calling it on a closed or never-opened
// manager does nothing.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	m.logger.Debug("Store client closed")
	return err
}

// IsOpen reports whether a store handle is live.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Scoped opens the manager, runs fn, and closes the manager on every exit
// path. A close failure is returned only if fn succeeded.
func (m *Manager) Scoped(fn func(*Manager) error) (err error) {
	if err := m.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(m)
}

func (m *Manager) handle() (storage.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return m.client, nil
	}

	client, err := m.factory(m.cfg)
	if err != nil {
		m.logger.Error("Failed to create store client", zap.Error(err))
		return nil, newError(KindConfiguration, "open", "", err)
	}
	m.client = client
	m.logger.Info("Store client created", zap.String("region", m.cfg.Region))
	return client, nil
}

func cleanKey(op, key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", invalidArgument(op, "", "key cannot be empty")
	}
	return trimmed, nil
}

// permanentIfMissing stops retries on a confirmed absence.
func permanentIfMissing(err error) error {
	if storage.IsNotFound(err) {
		return retry.Permanent(err)
	}
	return err
}

// Get fetches the bytes stored under key.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	key, err := cleanKey("get", key)
	if err != nil {
		return nil, err
	}
	client, err := m.handle()
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Downloading page", zap.String("key", key))
	data, err := retry.Do(ctx, m.policy, m.logger, "get", func() ([]byte, error) {
		obj, err := client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, permanentIfMissing(err)
		}
		defer obj.Close()

		data, err := io.ReadAll(obj)
		if err != nil {
			return nil, permanentIfMissing(err)
		}
		return data, nil
	})
	if err != nil {
		if storage.IsNotFound(err) {
			m.logger.Warn("Page not found", zap.String("key", key))
			return nil, newError(KindNotFound, "get", key, err)
		}
		m.logger.Error("Failed to download page", zap.String("key", key), zap.String("code", storage.ErrorCode(err)), zap.Error(err))
		return nil, newError(KindTransfer, "get", key, err)
	}

	m.logger.Info("Downloaded page", zap.String("key", key), zap.Int("bytes", len(data)))
	return data, nil
}

// GetMany fetches every key concurrently. Results line up with keys.
//
// With ignoreMissing, an absent key yields a nil entry. Any other failure,
// or any absence without ignoreMissing, aborts the batch and no results are
// returned.
func (m *Manager) GetMany(ctx context.Context, keys []string, ignoreMissing bool) ([][]byte, error) {
	if len(keys) == 0 {
		m.logger.Debug("No keys provided for batch download")
		return [][]byte{}, nil
	}

	m.logger.Info("Starting batch download", zap.Int("count", len(keys)))

	results := make([][]byte, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}

	for i, key := range keys {
		g.Go(func() error {
			data, err := m.Get(gctx, key)
			if err != nil {
				if ignoreMissing && errors.Is(err, ErrNotFound) {
					m.logger.Warn("Page not found, skipping", zap.String("key", key))
					return nil
				}
				return err
			}
			results[i] = data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := 0
	for _, r := range results {
		if r != nil {
			found++
		}
	}
	m.logger.Info("Batch download completed", zap.Int("found", found), zap.Int("requested", len(keys)))
	return results, nil
}

// GetPresent fetches keys, skipping absent ones, and returns only the payloads
// that exist, in key order.
func (m *Manager) GetPresent(ctx context.Context, keys []string) ([][]byte, error) {
	results, err := m.GetMany(ctx, keys, true)
	if err != nil {
		return nil, err
	}

	present := make([][]byte, 0, len(results))
	for _, r := range results {
		if r != nil {
			present = append(present, r)
		}
	}
	return present, nil
}

// Put encodes img as JPEG and stores it under key.
func (m *Manager) Put(ctx context.Context, key string, img image.Image, metadata map[string]string) error {
	key, err := cleanKey("put", key)
	if err != nil {
		return err
	}
	if img == nil {
		return invalidArgument("put", key, "image cannot be nil")
	}
	client, err := m.handle()
	if err != nil {
		return err
	}
	return m.put(ctx, client, key, img, metadata)
}

func (m *Manager) put(ctx context.Context, client storage.Client, key string, img image.Image, metadata map[string]string) error {
	encoded, err := m.encoder.Encode(img)
	if err != nil {
		m.logger.Error("Failed to encode page", zap.String("key", key), zap.Error(err))
		return newError(KindTransfer, "put", key, err)
	}

	opts := minio.PutObjectOptions{ContentType: codec.ContentType}
	if len(metadata) > 0 {
		opts.UserMetadata = metadata
	}

	m.logger.Debug("Uploading page", zap.String("key", key))
	_, err = retry.Do(ctx, m.policy, m.logger, "put", func() (minio.UploadInfo, error) {
		return client.PutObject(ctx, m.bucket, key, encoded.Reader(), encoded.Size, opts)
	})
	if err != nil {
		m.logger.Error("Failed to upload page", zap.String("key", key), zap.String("code", storage.ErrorCode(err)), zap.Error(err))
		return newError(KindTransfer, "put", key, err)
	}

	m.logger.Info("Uploaded page",
		zap.String("key", key),
		zap.Int64("bytes", encoded.Size),
		zap.Int("quality", m.encoder.Quality()),
	)
	return nil
}

// PutMany uploads images as consecutive pages of one document, concurrently,
// and returns their keys in page order.
//
// If any upload fails the error is returned. Pages already written by the
// batch are left in place.
func (m *Manager) PutMany(ctx context.Context, sessionID uuid.UUID, fileName string, images []image.Image, start int, metadata map[string]string) ([]string, error) {
	if len(images) == 0 {
		m.logger.Warn("No images to upload")
		return []string{}, nil
	}

	keys, err := DeriveKeys(sessionID, fileName, len(images), start)
	if err != nil {
		return nil, err
	}
	for i, img := range images {
		if img == nil {
			return nil, invalidArgument("put", keys[i], "image cannot be nil")
		}
	}

	client, err := m.handle()
	if err != nil {
		return nil, err
	}

	m.logger.Info("Starting batch upload",
		zap.Int("count", len(images)),
		zap.String("file", strings.TrimSpace(fileName)),
		zap.String("session", sessionID.String()),
	)

	g, gctx := errgroup.WithContext(ctx)
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}
	for i, img := range images {
		key := keys[i]
		g.Go(func() error {
			return m.put(gctx, client, key, img, metadata)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.logger.Info("Batch upload completed", zap.Int("count", len(keys)))
	return keys, nil
}

// UploadSingle stores one image under a caller-chosen key and returns the
// trimmed key. src may be an image.Image, raw encoded bytes, or a file path.
func (m *Manager) UploadSingle(ctx context.Context, key string, src any, metadata map[string]string) (string, error) {
	key, err := cleanKey("upload", key)
	if err != nil {
		return "", err
	}

	var img image.Image
	switch v := src.(type) {
	case image.Image:
		img = v
	case []byte:
		m.logger.Debug("Loading image from bytes", zap.Int("bytes", len(v)))
		img, err = codec.Decode(v)
	case string:
		m.logger.Debug("Loading image from file", zap.String("path", v))
		img, err = codec.Open(v)
	default:
		m.logger.Error("Unsupported image type", zap.String("type", fmt.Sprintf("%T", src)))
		return "", invalidArgument("upload", key, "unsupported image type %T", src)
	}
	if err != nil {
		return "", newError(KindInvalidArgument, "upload", key, err)
	}

	if err := m.Put(ctx, key, img, metadata); err != nil {
		return "", err
	}
	return key, nil
}

// Exists reports whether key is stored. Absence is not an error.
func (m *Manager) Exists(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey("exists", key)
	if err != nil {
		return false, err
	}
	client, err := m.handle()
	if err != nil {
		return false, err
	}

	_, err = retry.Do(ctx, m.policy, m.logger, "exists", func() (minio.ObjectInfo, error) {
		info, err := client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
		return info, permanentIfMissing(err)
	})
	switch {
	case err == nil:
		m.logger.Debug("Page exists", zap.String("key", key))
		return true, nil
	case storage.IsNotFound(err):
		m.logger.Debug("Page does not exist", zap.String("key", key))
		return false, nil
	}

	m.logger.Error("Failed to check page", zap.String("key", key), zap.String("code", storage.ErrorCode(err)), zap.Error(err))
	return false, newError(KindTransfer, "exists", key, err)
}

// Delete removes key. It returns false when there was nothing to remove.
func (m *Manager) Delete(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey("delete", key)
	if err != nil {
		return false, err
	}
	client, err := m.handle()
	if err != nil {
		return false, err
	}

	// S3 deletes of missing keys succeed, so absence is detected with a stat.
	removed, err := retry.Do(ctx, m.policy, m.logger, "delete", func() (bool, error) {
		if _, err := client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
			if storage.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if err := client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			if storage.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	})
	if err != nil {
		m.logger.Error("Failed to delete page", zap.String("key", key), zap.String("code", storage.ErrorCode(err)), zap.Error(err))
		return false, newError(KindDeletion, "delete", key, err)
	}

	if removed {
		m.logger.Info("Deleted page", zap.String("key", key))
	} else {
		m.logger.Warn("Attempted to delete missing page", zap.String("key", key))
	}
	return removed, nil
}

// List returns up to maxKeys keys under prefix. maxKeys <= 0 means DefaultMaxKeys.
func (m *Manager) List(ctx context.Context, prefix string, maxKeys int) ([]string, error) {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	client, err := m.handle()
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Listing pages", zap.String("prefix", prefix), zap.Int("max_keys", maxKeys))
	keys, err := retry.Do(ctx, m.policy, m.logger, "list", func() ([]string, error) {
		listCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		opts := minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
			MaxKeys:   maxKeys,
		}

		keys := make([]string, 0)
		for obj := range client.ListObjects(listCtx, m.bucket, opts) {
			if obj.Err != nil {
				return nil, obj.Err
			}
			keys = append(keys, obj.Key)
			if len(keys) >= maxKeys {
				break
			}
		}
		return keys, nil
	})
	if err != nil {
		m.logger.Error("Failed to list pages", zap.String("prefix", prefix), zap.String("code", storage.ErrorCode(err)), zap.Error(err))
		return nil, newError(KindList, "list", prefix, err)
	}

	m.logger.Info("Listed pages", zap.String("prefix", prefix), zap.Int("count", len(keys)))
	return keys, nil
}
