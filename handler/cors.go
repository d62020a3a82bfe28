package handler

import (
	"strings"

	"github.com/samber/lo"
)

var DefaultAllowedOrigins = []string{
	"https://www.thehangoversessions.co.uk",
	"https://thehangoversessions.co.uk",
	"http://localhost:3000",
	"http://localhost:8080",
	"http://localhost:5000",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8080",
	"http://0.0.0.0:8080",
}

const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
	corsMaxAge       = "86400"
)

type corsPolicy struct {
	allowedOrigins []string
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin.
//
// Pages opened from the local filesystem and requests without an Origin header
// are allowed along with the configured origins. Any other origin gets "null".
func (p *corsPolicy) allowOrigin(origin string) string {
	switch {
	case origin == "":
		return "*"
	case strings.HasPrefix(origin, "file://"):
		return origin
	case lo.Contains(p.allowedOrigins, origin):
		return origin
	}
	return "null"
}

func (p *corsPolicy) addHeaders(headers map[string]string, origin string) {
	headers["Access-Control-Allow-Origin"] = p.allowOrigin(origin)
	headers["Access-Control-Allow-Methods"] = corsAllowMethods
	headers["Access-Control-Allow-Headers"] = corsAllowHeaders
	headers["Access-Control-Max-Age"] = corsMaxAge
}
