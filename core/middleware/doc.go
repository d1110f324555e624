// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: a unique request id (ray id) for every request, stored in the
//     context locals and echoed in the X-Ray-ID response header.
//
// Both are registered globally in the start command, rayid first.
package middleware
