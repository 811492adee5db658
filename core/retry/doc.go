// Package retry runs fallible store calls under an exponential backoff policy.
//
// Do is generic over the operation's result, so one retry loop serves gets, puts,
// stats and listings alike. Retry n (0-based) waits Unit * 2^n; after MaxRetries
// retries the last error is returned as-is. Failures are not classified before
// retrying, except for errors the caller wraps with Permanent.
package retry
