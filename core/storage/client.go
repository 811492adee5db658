package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "s3.amazonaws.com"

// Client defines the interface for storage operations.
// Implementations must be safe for concurrent use.
type Client interface {
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject downloads an object.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	// StatObject fetches object metadata without the body.
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	// ListObjects lists objects in a bucket.
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	// RemoveObject deletes an object from a bucket.
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	// Close releases pooled connections. The client must not be used afterwards.
	Close() error
}

// NewClient creates a new Minio client based on the configuration.
// Credentials are resolved eagerly; ErrCredentials is returned when
// neither static keys nor the ambient chain yield any.
func NewClient(cfg Config) (Client, error) {
	endpoint, secure := splitEndpoint(cfg)

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration, // TLS Handshake timeout
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration, // Wait for first response byte timeout
	}

	creds, err := resolveCredentials(cfg, transport)
	if err != nil {
		return nil, err
	}

	// One wire attempt per call: retries belong to the caller's policy.
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:      creds,
		Secure:     secure,
		Region:     cfg.Region,
		Transport:  transport,
		MaxRetries: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioClientWrapper{Client: minioClient, transport: transport}, nil
}

// splitEndpoint strips the scheme from the configured endpoint. Minio expects
// a bare host; the scheme, when present, decides TLS.
func splitEndpoint(cfg Config) (string, bool) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	secure := cfg.UseSSL

	switch {
	case endpoint == "":
		return DefaultEndpoint, true
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}

	return strings.TrimRight(endpoint, "/"), secure
}

// resolveCredentials returns static credentials when both keys are set,
// otherwise the first provider of the ambient chain that yields keys.
func resolveCredentials(cfg Config, transport http.RoundTripper) (*credentials.Credentials, error) {
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("%w: access key and secret key must be set together", ErrCredentials)
		}
		return credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""), nil
	}

	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: transport}},
	})

	value, err := creds.GetWithContext(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentials, err)
	}
	if value.SignerType.IsAnonymous() {
		return nil, fmt.Errorf("%w: no provider in the chain returned keys", ErrCredentials)
	}

	return creds, nil
}

type minioClientWrapper struct {
	*minio.Client
	transport *http.Transport
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

func (c *minioClientWrapper) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}
