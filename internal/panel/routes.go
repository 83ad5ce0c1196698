package panel

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nazedev/botpanel/internal/api"
	"github.com/nazedev/botpanel/internal/node"
	"github.com/nazedev/botpanel/internal/observability"
	"github.com/nazedev/botpanel/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	msgPhoneRequired   = "Phone number is required"
	msgPhoneNotString  = "Phone number must be a string"
	msgOwnersNotArray  = "Owners must be an array"
	msgOwnersNotString = "Owners must be an array of strings"
	msgInvalidBody     = "Invalid JSON body"
)

func (p *Panel) RegisterRoutes() {
	r := p.router

	r.GET(api.PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, api.HealthResponse{
			Status:    api.StatusHealthy,
			Service:   ServiceName,
			Timestamp: api.Timestamp(p.now()),
			BotStatus: string(p.Store.ConnectionStatus()),
			Uptime:    p.Uptime().Truncate(time.Millisecond).String(),
			Version:   api.Version,
		})
	})

	r.GET(api.PathReady, node.ReadyHandler(p, api.Version))

	r.GET(api.PathMetrics, gin.WrapH(promhttp.Handler()))

	r.GET(api.PathStatus, p.handleStatus)
	r.POST(api.PathPair, p.handlePair)
	r.POST(api.PathClearSession, p.handleClearSession)
	r.GET(api.PathSettings, p.handleSettings)
	r.POST(api.PathUpdateOwner, p.handleUpdateOwner)

	r.GET(api.PathPanelStatus, func(c *gin.Context) {
		c.JSON(http.StatusOK, api.PanelStatusResponse{
			Panel:     "operational",
			Backend:   BackendName,
			BotStatus: string(p.Store.ConnectionStatus()),
			Timestamp: api.Timestamp(p.now()),
		})
	})
}

func (p *Panel) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, p.StatusView())
}

// StatusView renders the current session snapshot in the API shape.
func (p *Panel) StatusView() api.StatusResponse {
	snap := p.Store.Snapshot()
	return api.StatusResponse{
		Status:           snap.BotStatus,
		ConnectionStatus: string(snap.ConnectionStatus),
		PhoneNumber:      snap.PhoneNumber,
		PairingCode:      snap.PairingCode,
		BotInfo:          snap.BotInfo,
		Owner:            snap.Owners,
		BotName:          snap.BotName,
		PackName:         snap.PackName,
		Author:           snap.Author,
		Backend:          BackendName,
		Timestamp:        api.Timestamp(p.now()),
		Integrated:       true,
	}
}

func (p *Panel) handlePair(c *gin.Context) {
	var req api.PairRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	phone, ok := decodeOptionalString(req.PhoneNumber)
	if !ok {
		badRequest(c, msgPhoneNotString)
		return
	}

	canonical, err := p.Store.StartPairing(phone)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	observability.RecordPairingEvent(p.ID, observability.PairingRequested)
	log.Info().
		Str("panel", p.ID).
		Str("phone", canonical).
		Uint64("generation", p.Store.Generation()).
		Msg("pairing started")

	c.JSON(http.StatusOK, api.PairResponse{
		Status:  api.StatusSuccess,
		Message: "Pairing process started",
		Phone:   canonical,
	})
}

func (p *Panel) handleClearSession(c *gin.Context) {
	p.Store.ClearSession()
	observability.RecordPairingEvent(p.ID, observability.PairingCleared)
	log.Info().Str("panel", p.ID).Msg("session cleared")

	c.JSON(http.StatusOK, api.MessageResponse{
		Status:  api.StatusSuccess,
		Message: "Session cleared successfully",
	})
}

func (p *Panel) handleSettings(c *gin.Context) {
	settings := p.Store.Settings()
	c.JSON(http.StatusOK, api.SettingsResponse{
		Owner:    settings.Owners,
		BotName:  settings.BotName,
		PackName: settings.PackName,
		Author:   settings.Author,
		MultiBot: api.MultiBot{
			Enabled: settings.MultiBot.Enabled,
			Bots:    settings.MultiBot.Bots,
		},
		WebSettings: settings.WebSettings,
	})
}

func (p *Panel) handleUpdateOwner(c *gin.Context) {
	var req api.UpdateOwnersRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, msgInvalidBody)
		return
	}
	if isAbsent(req.Owners) {
		badRequest(c, msgOwnersNotArray)
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(req.Owners, &items); err != nil {
		badRequest(c, msgOwnersNotArray)
		return
	}
	owners := make([]string, 0, len(items))
	for _, item := range items {
		var owner string
		if err := json.Unmarshal(item, &owner); err != nil {
			badRequest(c, msgOwnersNotString)
			return
		}
		owners = append(owners, owner)
	}

	stored, err := p.Store.UpdateOwners(owners)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	log.Info().Str("panel", p.ID).Int("owners", len(stored)).Msg("owner list updated")

	c.JSON(http.StatusOK, api.UpdateOwnersResponse{
		Status:  api.StatusSuccess,
		Message: "Owner list updated",
		Owners:  stored,
	})
}

// bindOptionalJSON decodes the body into out; an empty body is not an error.
func bindOptionalJSON(c *gin.Context, out any) error {
	err := c.ShouldBindJSON(out)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// decodeOptionalString returns "" for an absent field and false when the field
// holds something other than a string.
func decodeOptionalString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", true
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false
	}
	return out, true
}

func respondStoreError(c *gin.Context, err error) {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		badRequest(c, verr.Message)
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("session operation failed")
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:   "Internal Server Error",
		Message: err.Error(),
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: message})
}
