package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ExtractClientIP extracts the real client IP address from the request.
//
// Forwarding headers are only honoured when the peer is a private or loopback
// address (our own proxy). Priority order then is:
// 1. X-Forwarded-For header (rightmost public hop)
// 2. X-Real-IP header (nginx/cloudflare)
// 3. RemoteAddr
func ExtractClientIP(c *gin.Context) string {
	// RemoteAddr format: "IP:port" or "[IPv6]:port"
	remoteAddr := c.Request.RemoteAddr
	peer, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		peer = remoteAddr
	}
	if !isValidIP(peer) {
		return "127.0.0.1"
	}

	// A public peer talks to us directly; its headers are caller controlled
	if !IsPrivateIP(peer) {
		return peer
	}

	// Format: "client, proxy1, proxy2". Walk back past our own proxies.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if ip := clientFromXFF(xff); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		if isValidIP(xri) {
			return xri
		}
	}

	return peer
}

func clientFromXFF(xff string) string {
	hops := strings.Split(xff, ",")
	last := ""
	for i := len(hops) - 1; i >= 0; i-- {
		ip := strings.TrimSpace(hops[i])
		if !isValidIP(ip) {
			break
		}
		if !IsPrivateIP(ip) {
			return ip
		}
		last = ip
	}
	return last
}

func isValidIP(ip string) bool {
	if ip == "" {
		return false
	}
	return net.ParseIP(ip) != nil
}

// IsPrivateIP checks if an IP address is in a private or loopback range.
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback()
}
