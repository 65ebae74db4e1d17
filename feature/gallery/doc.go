// Package gallery exposes media sets and their views over HTTP.
//
// The service owns no engine state of its own beyond a registry of the views
// it opened; every call hops onto the owner loop of the sets with
// dispatch.Loop.Call, so handlers never touch a set or view directly.
//
// # HTTP Endpoints
//
//   - GET /media/count : Item count of a set (supports ?set=).
//   - POST /media/views : Opens a view ({"set","order","limit"}).
//   - GET /media/views/:id : Current contents of a view.
//   - DELETE /media/views/:id : Releases a view.
//   - POST /media/refresh : Reconciles a set with the index now (supports ?set=).
package gallery
