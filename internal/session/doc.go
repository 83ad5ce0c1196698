// Package session owns the single bot-connection session held by the panel
// backend.
//
// Ownership boundary:
// - connection status and the human-readable bot status
// - phone number and pairing code of the current pairing attempt
// - owner list and static bot/pack naming
//
// The Store is created once per process and handed to the HTTP layer. Deferred
// pairing-code writes are tagged with the session generation so a write
// scheduled before a clear (or a newer pair request) is dropped instead of
// clobbering the current session.
//
// The real bot integration drives online/offline/connecting through the Set*
// entry points; this package never produces those states itself.
package session
