// Package middleware groups the Fiber middleware of the API.
//
//   - auth: checks the X-API-Key header (or a bearer token) against the
//     configured key, leaving health and metrics public.
//   - rayid: gives every request an id, stored in the ray_id local and echoed
//     in the X-Ray-ID header, so logger.WithRayID can tag log lines.
package middleware
