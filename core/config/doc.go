// Package config provides configuration management for the page store.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (loaded with godotenv, overriding the process environment).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Storage: endpoint, credentials, bucket, region, encode quality and retry policy
//   - Log: Logging level and format
//
// Defaults come from the `default` struct tags. Nested keys map to environment
// variables by replacing dots with underscores, e.g. storage.bucket is STORAGE_BUCKET.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
