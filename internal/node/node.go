package node

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Node is one HTTP process of the panel: the backend or the gateway.
type Node interface {
	NodeID() string
	Kind() string
	ListenAddr() string
	Uptime() time.Duration
	HTTPRouter() *gin.Engine
}

// ReadyHandler answers /ready for n.
func ReadyHandler(n Node, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  n.Uptime().Truncate(time.Millisecond).String(),
			"service": n.NodeID(),
			"kind":    n.Kind(),
			"version": version,
		})
	}
}
