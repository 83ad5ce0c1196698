package session

import (
	"crypto/rand"
	"strings"
)

const (
	CodeLength   = 6
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// CanonicalPhone keeps only the ASCII digits of raw.
func CanonicalPhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateCode returns a random uppercase alphanumeric pairing code. It is a
// placeholder for the code a real WhatsApp pairing would return.
func GenerateCode() string {
	buf := make([]byte, CodeLength)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// issueCode is the deferred half of StartPairing, run by the pairing timer.
func (s *Store) issueCode(gen uint64) {
	code := s.generate()

	s.mu.Lock()
	if s.closed || s.generation != gen || s.connectionStatus != StatusPairing {
		s.mu.Unlock()
		if s.observer != nil {
			s.observer.PairingCodeDiscarded(gen)
		}
		return
	}
	s.pairingCode = &code
	s.botStatus = BotStatusCodeReady
	s.pending = nil
	phone := ""
	if s.phoneNumber != nil {
		phone = *s.phoneNumber
	}
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.PairingCodeIssued(gen, phone)
	}
}
