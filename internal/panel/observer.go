package panel

import (
	"github.com/nazedev/botpanel/internal/observability"
	"github.com/rs/zerolog/log"
)

// pairingObserver turns deferred pairing outcomes into logs and metrics.
type pairingObserver struct {
	node string
}

func (o pairingObserver) PairingCodeIssued(generation uint64, phone string) {
	observability.RecordPairingEvent(o.node, observability.PairingIssued)
	log.Info().
		Str("panel", o.node).
		Uint64("generation", generation).
		Str("phone", phone).
		Msg("pairing code generated")
}

func (o pairingObserver) PairingCodeDiscarded(generation uint64) {
	observability.RecordPairingEvent(o.node, observability.PairingDiscarded)
	log.Warn().
		Str("panel", o.node).
		Uint64("generation", generation).
		Msg("stale pairing code discarded")
}
