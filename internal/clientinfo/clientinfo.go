// Package clientinfo derives device metadata from an HTTP request for
// session records: device type, model, operating system, browser and version.
package clientinfo

import (
	"regexp"
	"strings"
)

// DeviceInfo is the metadata stamped onto a session at issuance
type DeviceInfo struct {
	DeviceType     string // mobile, tablet, desktop, unknown
	Model          string
	OS             string
	Browser        string
	BrowserVersion string
}

// androidModel matches the device token Android agents place between the
// locale and the optional Build marker, e.g. "(...; SM-G991B Build/...)".
var androidModel = regexp.MustCompile(`Android [0-9.]+;(?: [a-z]{2}-[A-Za-z]{2};)? ([^;)]+?)(?: Build/[^;)]*)?[;)]`)

var versionPatterns = map[string]*regexp.Regexp{
	"Edge":    regexp.MustCompile(`Edg(?:e|A|iOS)?/([0-9.]+)`),
	"Opera":   regexp.MustCompile(`OPR/([0-9.]+)`),
	"Chrome":  regexp.MustCompile(`Chrome/([0-9.]+)`),
	"Firefox": regexp.MustCompile(`Firefox/([0-9.]+)`),
	"Safari":  regexp.MustCompile(`Version/([0-9.]+)`),
}

// Parse extracts device metadata from a User-Agent header value.
// Unrecognized agents yield "unknown" fields rather than an error.
func Parse(userAgent string) DeviceInfo {
	info := DeviceInfo{
		DeviceType:     "desktop",
		Model:          "unknown",
		OS:             "unknown",
		Browser:        "unknown",
		BrowserVersion: "",
	}
	if strings.TrimSpace(userAgent) == "" {
		info.DeviceType = "unknown"
		return info
	}

	ua := userAgent

	switch {
	case strings.Contains(ua, "iPad"):
		info.DeviceType = "tablet"
		info.Model = "iPad"
		info.OS = "iPadOS"
	case strings.Contains(ua, "iPhone"):
		info.DeviceType = "mobile"
		info.Model = "iPhone"
		info.OS = "iOS"
	case strings.Contains(ua, "Android"):
		info.OS = "Android"
		if strings.Contains(ua, "Mobile") {
			info.DeviceType = "mobile"
		} else {
			info.DeviceType = "tablet"
		}
		if match := androidModel.FindStringSubmatch(ua); len(match) == 2 {
			info.Model = strings.TrimSpace(match[1])
		}
	case strings.Contains(ua, "Windows"):
		info.OS = "Windows"
	case strings.Contains(ua, "Mac OS X"), strings.Contains(ua, "Macintosh"):
		info.OS = "macOS"
	case strings.Contains(ua, "Linux"):
		info.OS = "Linux"
	}

	// Order matters: Chrome-family agents also advertise Safari, and
	// Edge/Opera also advertise Chrome.
	switch {
	case strings.Contains(ua, "Edg"):
		info.Browser = "Edge"
	case strings.Contains(ua, "OPR/"), strings.Contains(ua, "Opera"):
		info.Browser = "Opera"
	case strings.Contains(ua, "Chrome/"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "Firefox/"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "Safari/"):
		info.Browser = "Safari"
	}

	if pattern, ok := versionPatterns[info.Browser]; ok {
		if match := pattern.FindStringSubmatch(ua); len(match) == 2 {
			info.BrowserVersion = match[1]
		}
	}

	return info
}
