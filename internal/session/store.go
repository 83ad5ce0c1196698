package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ConnectionStatus is the bot connection state shown on the dashboard.
type ConnectionStatus string

const (
	StatusInitializing ConnectionStatus = "initializing"
	StatusPairing      ConnectionStatus = "pairing"
	StatusOnline       ConnectionStatus = "online"
	StatusOffline      ConnectionStatus = "offline"
	StatusConnecting   ConnectionStatus = "connecting"
)

// Bot status texts written by the store itself.
const (
	BotStatusInitializing = "Initializing..."
	BotStatusRequesting   = "Requesting pairing code..."
	BotStatusCodeReady    = "Pairing code generated"
	BotStatusCleared      = "Session cleared"
)

const DefaultPairingDelay = 2 * time.Second

// Valid reports whether s is one of the known connection states.
func (s ConnectionStatus) Valid() bool {
	switch s {
	case StatusInitializing, StatusPairing, StatusOnline, StatusOffline, StatusConnecting:
		return true
	}
	return false
}

// MultiBot is the static multi-bot setting echoed by the settings endpoint.
type MultiBot struct {
	Enabled bool     `json:"enabled"`
	Bots    []string `json:"bots"`
}

// Profile holds the static values a Store starts with.
type Profile struct {
	BotName     string
	PackName    string
	Author      string
	Owners      []string
	MultiBot    MultiBot
	WebSettings map[string]string
}

func DefaultProfile() Profile {
	return Profile{
		BotName:     "Hitori Bot",
		PackName:    "Bot WhatsApp",
		Author:      "Nazedev",
		Owners:      []string{"6282113821188"},
		MultiBot:    MultiBot{Enabled: true, Bots: []string{}},
		WebSettings: map[string]string{},
	}
}

// Observer is told about deferred pairing-code outcomes. Calls happen outside
// the store lock.
type Observer interface {
	PairingCodeIssued(generation uint64, phone string)
	PairingCodeDiscarded(generation uint64)
}

type Options struct {
	Profile       Profile
	PairingDelay  time.Duration
	CodeGenerator func() string
	Observer      Observer
}

// Snapshot is a copy of the session state at one instant.
type Snapshot struct {
	BotStatus        string
	ConnectionStatus ConnectionStatus
	PhoneNumber      *string
	PairingCode      *string
	BotInfo          any
	Owners           []string
	BotName          string
	PackName         string
	Author           string
}

// Settings is the management view of the static session configuration.
type Settings struct {
	Owners      []string
	BotName     string
	PackName    string
	Author      string
	MultiBot    MultiBot
	WebSettings map[string]string
}

// Store owns the single Session of a panel backend process.
type Store struct {
	mu sync.RWMutex

	botStatus        string
	connectionStatus ConnectionStatus
	phoneNumber      *string
	pairingCode      *string
	botInfo          any
	owners           []string
	profile          Profile

	generation uint64
	pending    *time.Timer
	closed     bool

	delay    time.Duration
	generate func() string
	observer Observer
}

// New builds a Store in the initializing state.
func New(opts Options) *Store {
	profile := withProfileDefaults(opts.Profile)
	delay := opts.PairingDelay
	if delay <= 0 {
		delay = DefaultPairingDelay
	}
	generate := opts.CodeGenerator
	if generate == nil {
		generate = GenerateCode
	}
	return &Store{
		botStatus:        BotStatusInitializing,
		connectionStatus: StatusInitializing,
		owners:           slices.Clone(profile.Owners),
		profile:          profile,
		delay:            delay,
		generate:         generate,
		observer:         opts.Observer,
	}
}

// withProfileDefaults fills every unset field of p from DefaultProfile. An
// untouched MultiBot block (disabled, nil bots) takes the default block.
func withProfileDefaults(p Profile) Profile {
	def := DefaultProfile()
	if p.BotName == "" {
		p.BotName = def.BotName
	}
	if p.PackName == "" {
		p.PackName = def.PackName
	}
	if p.Author == "" {
		p.Author = def.Author
	}
	if len(p.Owners) == 0 {
		p.Owners = def.Owners
	}
	if !p.MultiBot.Enabled && p.MultiBot.Bots == nil {
		p.MultiBot = def.MultiBot
	}
	if p.MultiBot.Bots == nil {
		p.MultiBot.Bots = []string{}
	}
	if p.WebSettings == nil {
		p.WebSettings = map[string]string{}
	}
	return p
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		BotStatus:        s.botStatus,
		ConnectionStatus: s.connectionStatus,
		PhoneNumber:      cloneString(s.phoneNumber),
		PairingCode:      cloneString(s.pairingCode),
		BotInfo:          s.botInfo,
		Owners:           slices.Clone(s.owners),
		BotName:          s.profile.BotName,
		PackName:         s.profile.PackName,
		Author:           s.profile.Author,
	}
}

// ConnectionStatus returns only the current connection state.
func (s *Store) ConnectionStatus() ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectionStatus
}

// Generation returns the current session epoch.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bots := slices.Clone(s.profile.MultiBot.Bots)
	if bots == nil {
		bots = []string{}
	}
	web := make(map[string]string, len(s.profile.WebSettings))
	for k, v := range s.profile.WebSettings {
		web[k] = v
	}
	return Settings{
		Owners:      slices.Clone(s.owners),
		BotName:     s.profile.BotName,
		PackName:    s.profile.PackName,
		Author:      s.profile.Author,
		MultiBot:    MultiBot{Enabled: s.profile.MultiBot.Enabled, Bots: bots},
		WebSettings: web,
	}
}

// StartPairing records the canonical phone number, enters the pairing state
// and schedules the code write. It returns the canonical number.
func (s *Store) StartPairing(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", invalid("phoneNumber", "Phone number is required")
	}
	canonical := CanonicalPhone(phone)
	if canonical == "" {
		return "", invalid("phoneNumber", "Phone number must contain digits")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPendingLocked()
	s.generation++
	gen := s.generation

	s.phoneNumber = &canonical
	s.pairingCode = nil
	s.connectionStatus = StatusPairing
	s.botStatus = BotStatusRequesting
	if !s.closed {
		s.pending = time.AfterFunc(s.delay, func() { s.issueCode(gen) })
	}
	return canonical, nil
}

// ClearSession resets the pairing state and drops any scheduled code write.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPendingLocked()
	s.generation++

	s.phoneNumber = nil
	s.pairingCode = nil
	s.botInfo = nil
	s.connectionStatus = StatusInitializing
	s.botStatus = BotStatusCleared
}

// UpdateOwners replaces the owner list wholesale and returns the stored copy.
func (s *Store) UpdateOwners(owners []string) ([]string, error) {
	if len(owners) == 0 {
		return nil, invalid("owners", "Owners must not be empty")
	}
	next := make([]string, 0, len(owners))
	for _, owner := range owners {
		owner = strings.TrimSpace(owner)
		if owner == "" {
			return nil, invalid("owners", "Owners must not contain blank entries")
		}
		next = append(next, owner)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners = next
	return slices.Clone(next), nil
}

func (s *Store) SetBotStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botStatus = status
}

func (s *Store) SetConnectionStatus(status ConnectionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownConnectionStatus, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectionStatus == StatusPairing && status != StatusPairing {
		// a code scheduled for the abandoned pairing must not land
		s.stopPendingLocked()
		s.generation++
	}
	s.connectionStatus = status
	return nil
}

// SetPhoneNumber stores number verbatim; "" clears it.
func (s *Store) SetPhoneNumber(number string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phoneNumber = optional(number)
}

// SetPairingCode stores code verbatim; "" clears it.
func (s *Store) SetPairingCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairingCode = optional(code)
}

// SetBotInfo stores an opaque metadata value. Callers must not mutate it
// afterwards.
func (s *Store) SetBotInfo(info any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.botInfo = info
}

// Close stops any scheduled code write. The store stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopPendingLocked()
}

func (s *Store) stopPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
