// Package pages stores and fetches page images in an S3-compatible bucket.
//
// The Manager is the entry point. It owns one lazily opened store handle, encodes
// images to JPEG once per upload, and wraps every store call in the exponential
// retry policy from core/retry.
//
// # Keys
//
// Grouped uploads are addressed as
//
//	{session}/{file}/{page}.jpeg
//
// where session is a UUID, file is the trimmed source file name and page starts at 1.
// DeriveKeys builds these keys and ParseKey reverses them. Single uploads use any
// caller-chosen key.
//
// # Operations
//
//   - Get, GetMany, GetPresent: download one or many pages. Batches run concurrently
//     and results line up with the requested keys.
//   - Put, PutMany, UploadSingle: encode and upload. PutMany is fail-fast and leaves
//     pages already written in place.
//   - Exists, Delete, List: inspect and maintain the bucket.
//
// # Errors
//
// Every failure is an *Error carrying a Kind. Match with errors.Is against
// ErrNotFound, ErrTransfer, etc.; the underlying minio error stays reachable
// through errors.As.
//
// # HTTP
//
// Handler exposes the manager under /pages and Feature plugs it into core/loader.
//
//	GET    /pages?prefix=&max_keys=   list keys
//	GET    /pages/{key}               page bytes (image/jpeg)
//	HEAD   /pages/{key}               200 or 404
//	PUT    /pages/{key}               upload body; X-Page-Meta-* headers become metadata
//	DELETE /pages/{key}               {"deleted": bool}
package pages
