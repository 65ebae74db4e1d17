// Package middleware groups the Fiber middleware placed in front of the
// gallery and indexer routes.
//
//   - rayid: tags every request with a RayID, taken from the X-Ray-ID header
//     or generated, and echoes it back. logger.WithRayID reads it so handler
//     logs about a view or a scan can be matched to the request.
//   - auth: checks the X-API-Key header (or api_key query parameter) against
//     the configured key. An empty key leaves the API open, which is how local
//     single-host setups run.
//
// The server registers rayid first so rejected requests are still tagged.
package middleware
