// Package gateway is the public-facing half of the panel: it serves the
// embedded dashboard and forwards every Control API call to the panel backend.
//
// Upstream answers, including 4xx validation errors, are relayed as received.
// Only a transport failure produces a synthesized 500 {error, message}
// envelope.
package gateway
