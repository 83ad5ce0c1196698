package gateway

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nazedev/botpanel/internal/node"
)

const (
	ServiceName  = "Dashboard Gateway"
	FrontendName = "Gateway"
	BackendName  = "Panel"
)

// Gateway serves the dashboard and relays API calls to one panel backend.
type Gateway struct {
	ID       string    `json:"id"`
	Addr     string    `json:"addr"`
	Appeared time.Time `json:"appeared"`

	upstream *Upstream
	router   *gin.Engine
	now      func() time.Time
}

var _ node.Node = (*Gateway)(nil)

func Appear(id, addr string, corsOrigins []string, upstream *Upstream) *Gateway {
	return &Gateway{
		ID:       id,
		Addr:     addr,
		Appeared: time.Now(),
		upstream: upstream,
		router:   node.NewRouter(id, ServiceName, corsOrigins),
		now:      time.Now,
	}
}

func (g *Gateway) NodeID() string {
	return g.ID
}

func (g *Gateway) Kind() string {
	return "gateway"
}

func (g *Gateway) ListenAddr() string {
	return g.Addr
}

func (g *Gateway) Uptime() time.Duration {
	return time.Since(g.Appeared)
}

func (g *Gateway) HTTPRouter() *gin.Engine {
	return g.router
}

func (g *Gateway) BackendURL() string {
	return g.upstream.BaseURL()
}
