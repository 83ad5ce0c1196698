package gateway

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nazedev/botpanel/internal/api"
	"github.com/nazedev/botpanel/internal/node"
	"github.com/nazedev/botpanel/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const PathGatewayStatus = "/api/gateway-status"

//go:embed web
var webFS embed.FS

// proxyRoute binds one Control API route to the error text used when the
// backend cannot be reached.
type proxyRoute struct {
	method  string
	path    string
	failure string
}

var proxyRoutes = []proxyRoute{
	{http.MethodGet, api.PathStatus, "Cannot connect to backend"},
	{http.MethodPost, api.PathPair, "Backend connection failed"},
	{http.MethodPost, api.PathClearSession, "Backend connection failed"},
	{http.MethodGet, api.PathSettings, "Cannot fetch settings"},
	{http.MethodPost, api.PathUpdateOwner, "Failed to update owner"},
	{http.MethodGet, api.PathPanelStatus, "Cannot connect to backend"},
}

func (g *Gateway) RegisterRoutes() {
	r := g.router

	r.GET(api.PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, api.HealthResponse{
			Status:     api.StatusHealthy,
			Service:    ServiceName,
			Timestamp:  api.Timestamp(g.now()),
			BackendURL: g.BackendURL(),
			Uptime:     g.Uptime().Truncate(time.Millisecond).String(),
			Version:    api.Version,
		})
	})

	r.GET(api.PathReady, node.ReadyHandler(g, api.Version))

	r.GET(api.PathMetrics, gin.WrapH(promhttp.Handler()))

	r.GET(PathGatewayStatus, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"gateway":   "operational",
			"frontend":  FrontendName,
			"timestamp": api.Timestamp(g.now()),
			"version":   api.Version,
		})
	})

	for _, route := range proxyRoutes {
		r.Handle(route.method, route.path, g.proxyHandler(route))
	}

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		// embed layout is fixed at build time
		panic(err)
	}
	index := func(c *gin.Context) {
		data, err := fs.ReadFile(static, "index.html")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard unavailable"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	r.GET("/", index)
	r.GET("/dashboard", index)
	r.StaticFS("/static", http.FS(static))
}

func (g *Gateway) proxyHandler(route proxyRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var body []byte
		if c.Request.Body != nil {
			data, err := readLimited(c.Request.Body)
			if errors.Is(err, ErrBodyTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "Request body too large"})
				return
			}
			if err != nil {
				c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
				return
			}
			body = data
		}

		resp, err := g.upstream.Forward(
			c.Request.Context(),
			route.method,
			route.path,
			c.Request.URL.RawQuery,
			body,
			c.ContentType(),
			observability.RequestIDFrom(c),
		)
		if err != nil {
			g.respondUpstreamFailure(c, route, err)
			observability.RecordUpstream(g.ID, route.method, route.path, http.StatusInternalServerError, time.Since(start), false)
			return
		}

		payload := resp.Body
		if route.path == api.PathStatus {
			payload = enrichStatus(resp)
		}
		c.Data(resp.StatusCode, resp.ContentType, payload)

		log.Info().
			Str("gateway", g.ID).
			Str("method", route.method).
			Str("path", route.path).
			Int("status", resp.StatusCode).
			Msg("upstream_proxy")
		observability.RecordUpstream(g.ID, route.method, route.path, resp.StatusCode, time.Since(start), resp.StatusCode < 400)
	}
}

func (g *Gateway) respondUpstreamFailure(c *gin.Context, route proxyRoute, err error) {
	message := err.Error()
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		message = uerr.Err.Error()
	}
	log.Error().
		Str("gateway", g.ID).
		Str("method", route.method).
		Str("url", g.BackendURL()+route.path).
		Err(err).
		Msg("upstream_proxy_failed")

	envelope := gin.H{
		"error":   route.failure,
		"message": message,
	}
	if route.path == api.PathStatus {
		envelope["frontend"] = FrontendName
		envelope["backend_url"] = g.BackendURL()
	}
	c.JSON(http.StatusInternalServerError, envelope)
}

// enrichStatus tags a successful status object with the gateway markers.
// Anything else is relayed untouched.
func enrichStatus(resp UpstreamResponse) []byte {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.Body
	}
	var doc map[string]any
	if err := json.Unmarshal(resp.Body, &doc); err != nil || doc == nil {
		return resp.Body
	}
	doc["frontend"] = FrontendName
	doc["backend"] = BackendName
	doc["integrated"] = true
	out, err := json.Marshal(doc)
	if err != nil {
		return resp.Body
	}
	return out
}
