package storage

import "time"

// Config holds configuration for the page store.
type Config struct {
	// Endpoint is the URL of an S3-compatible service. Empty means AWS S3.
	// An explicit http:// or https:// scheme overrides UseSSL.
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	// Leave AccessKey and SecretKey empty to use the ambient credential chain.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// Bucket is the name of the bucket page images are stored in.
	Bucket string `mapstructure:"bucket" default:"pages"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Quality is the JPEG encode quality (1-100).
	Quality int `mapstructure:"quality" default:"95"`
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryUnit is the base backoff delay. Retry n waits RetryUnit * 2^n.
	RetryUnit time.Duration `mapstructure:"retry_unit" default:"1s"`
	// Concurrency caps in-flight transfers per batch. Zero means one per item.
	Concurrency int `mapstructure:"concurrency" default:"0"`
}
