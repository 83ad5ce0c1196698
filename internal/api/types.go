// Package api holds the JSON shapes and paths shared by the panel backend, the
// gateway and the terminal dashboard.
package api

import (
	"encoding/json"
	"time"
)

const (
	PathStatus       = "/api/status"
	PathPair         = "/api/pair"
	PathClearSession = "/api/clear-session"
	PathSettings     = "/api/settings"
	PathUpdateOwner  = "/api/update-owner"
	PathPanelStatus  = "/api/panel-status"
	PathHealth       = "/health"
	PathReady        = "/ready"
	PathMetrics      = "/metrics"
)

const (
	StatusSuccess = "success"
	StatusHealthy = "healthy"
	Version       = "1.0.0"
)

// TimestampLayout matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Status           string   `json:"status"`
	ConnectionStatus string   `json:"connection_status"`
	PhoneNumber      *string  `json:"phone_number"`
	PairingCode      *string  `json:"pairing_code"`
	BotInfo          any      `json:"bot_info"`
	Owner            []string `json:"owner"`
	BotName          string   `json:"botname"`
	PackName         string   `json:"packname"`
	Author           string   `json:"author"`
	Backend          string   `json:"backend,omitempty"`
	Frontend         string   `json:"frontend,omitempty"`
	Timestamp        string   `json:"timestamp"`
	Integrated       bool     `json:"integrated"`
}

// PairRequest keeps the raw field so presence and type can be told apart.
type PairRequest struct {
	PhoneNumber json.RawMessage `json:"phoneNumber"`
}

type PairResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Phone   string `json:"phone"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MultiBot struct {
	Enabled bool     `json:"enabled"`
	Bots    []string `json:"bots"`
}

type SettingsResponse struct {
	Owner       []string          `json:"owner"`
	BotName     string            `json:"botname"`
	PackName    string            `json:"packname"`
	Author      string            `json:"author"`
	MultiBot    MultiBot          `json:"multi_bot"`
	WebSettings map[string]string `json:"web_settings"`
}

// UpdateOwnersRequest keeps the raw field so a non-array can be rejected.
type UpdateOwnersRequest struct {
	Owners json.RawMessage `json:"owners"`
}

type UpdateOwnersResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Owners  []string `json:"owners"`
}

type PanelStatusResponse struct {
	Panel     string `json:"panel"`
	Backend   string `json:"backend"`
	BotStatus string `json:"bot_status"`
	Timestamp string `json:"timestamp"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Timestamp  string `json:"timestamp"`
	BotStatus  string `json:"bot_status,omitempty"`
	BackendURL string `json:"backend_url,omitempty"`
	Uptime     string `json:"uptime"`
	Version    string `json:"version"`
}
