// Package watch is a terminal client for the bot panel.
//
// Client issues the Control API calls; Poller refreshes the connection
// status on a fixed interval and hands each result to a Renderer. It talks
// to either the gateway or the backend directly since both expose the same
// /api routes.
package watch
