// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber application; this package only defines the
// settings it reads: the listen port, the optional API key and the upload body limit.
//
// # Usage
//
// This package is embedded by core/config and consumed by cmd/serve.go.
package server
