package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS restricts browser origins to the configured frontend domain in
// production. Outside production, or when no domain is configured, any origin
// is accepted so local frontends can talk to the API directly.
func CORS(domain, env string) gin.HandlerFunc {
	locked := env == "production" && domain != ""
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case !locked:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowedOrigin(origin, domain):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// allowedOrigin accepts the configured domain and its subdomains, https only.
func allowedOrigin(origin, domain string) bool {
	host, ok := strings.CutPrefix(origin, "https://")
	if !ok {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
