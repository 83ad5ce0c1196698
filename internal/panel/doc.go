// Package panel is the Control API of the panel backend.
//
// It translates HTTP requests into session.Store operations and snapshots,
// checks only presence and type of request fields, and owns the backend
// process lifecycle (listen, serve, graceful shutdown).
package panel
