// Copyright (c) 2026 RepSet. All rights reserved.

package gate

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/repset/edge/internal/platform/constants"
)

// # Request Descriptor

// Request is the transport-neutral view of an inbound request the gate
// evaluates. It is built once per request by [FromHTTP] and treated as
// immutable afterwards.
type Request struct {
	Method string
	Path   string

	// SessionToken is the raw session cookie value, empty when absent.
	SessionToken string

	// Metadata for the activity recorder. Never a security input.
	UserAgent  string
	ClientIP   string
	DeviceType DeviceType
	Referer    string
	ReceivedAt time.Time
}

// FromHTTP extracts the gate's view of an [*http.Request].
func FromHTTP(request *http.Request) *Request {
	token := ""
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
		token = cookie.Value
	}

	userAgent := request.Header.Get(constants.HeaderUserAgent)
	if userAgent == "" {
		userAgent = "unknown"
	}

	return &Request{
		Method:       request.Method,
		Path:         request.URL.Path,
		SessionToken: token,
		UserAgent:    userAgent,
		ClientIP:     ClientIP(request),
		DeviceType:   DetectDeviceType(userAgent),
		Referer:      request.Header.Get(constants.HeaderReferer),
		ReceivedAt:   time.Now().UTC(),
	}
}

// # Client IP Derivation

// ClientIP derives the caller's address for event metadata.
//
// Precedence: X-Forwarded-For (first comma segment, trimmed), then
// X-Real-IP, then CF-Connecting-IP, then the transport peer address, then
// the literal "unknown". This value feeds the activity log only — it is
// never used for authorization decisions.
func ClientIP(request *http.Request) string {
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if ip := request.Header.Get(constants.HeaderCFConnectingIP); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(request.RemoteAddr); err == nil && host != "" {
		return host
	}
	if request.RemoteAddr != "" {
		return request.RemoteAddr
	}

	return "unknown"
}

// # Device Detection

// DeviceType is a coarse user-agent classification used as event metadata.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

var (
	mobileKeywords  = []string{"mobile", "android", "iphone", "ipod", "blackberry", "iemobile", "opera mini"}
	tabletKeywords  = []string{"tablet", "ipad", "playbook", "silk"}
	desktopKeywords = []string{"desktop", "windows", "macintosh", "linux"}
)

// DetectDeviceType classifies a user-agent string by case-insensitive
// keyword matching. Mobile keywords win over tablet keywords, which win
// over desktop keywords, matching the upstream analytics convention.
func DetectDeviceType(userAgent string) DeviceType {
	ua := strings.ToLower(userAgent)

	for _, keyword := range mobileKeywords {
		if strings.Contains(ua, keyword) {
			return DeviceMobile
		}
	}
	for _, keyword := range tabletKeywords {
		if strings.Contains(ua, keyword) {
			return DeviceTablet
		}
	}
	for _, keyword := range desktopKeywords {
		if strings.Contains(ua, keyword) {
			return DeviceDesktop
		}
	}

	return DeviceUnknown
}
