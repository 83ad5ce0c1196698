package panel

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nazedev/botpanel/internal/node"
	"github.com/nazedev/botpanel/internal/session"
)

const (
	ServiceName = "Panel Backend"
	BackendName = "Panel"
)

// Panel serves the Control API over one session.Store.
type Panel struct {
	ID       string         `json:"id"`
	Addr     string         `json:"addr"`
	Appeared time.Time      `json:"appeared"`
	Store    *session.Store `json:"-"`

	router *gin.Engine
	now    func() time.Time
}

var _ node.Node = (*Panel)(nil)

// Appear builds a Panel with the shared middleware stack. A nil store gets a
// default one.
func Appear(id, addr string, corsOrigins []string, store *session.Store) *Panel {
	if store == nil {
		store = session.New(session.Options{Profile: session.DefaultProfile()})
	}
	return &Panel{
		ID:       id,
		Addr:     addr,
		Appeared: time.Now(),
		Store:    store,
		router:   node.NewRouter(id, ServiceName, corsOrigins),
		now:      time.Now,
	}
}

func (p *Panel) NodeID() string {
	return p.ID
}

func (p *Panel) Kind() string {
	return "panel"
}

func (p *Panel) ListenAddr() string {
	return p.Addr
}

func (p *Panel) Uptime() time.Duration {
	return time.Since(p.Appeared)
}

func (p *Panel) HTTPRouter() *gin.Engine {
	return p.router
}
