// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation on the X-API-Key header. Disabled when no key is configured.
//   - rayid: assigns a unique Request ID (RayID) to every incoming request,
//     injecting it into the context and the X-Ray-ID response header for tracing.
//
// These middleware components are registered globally by the serve command.
package middleware
