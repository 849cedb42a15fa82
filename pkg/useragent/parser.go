// Package useragent classifies requester devices from User-Agent strings.
package useragent

import (
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
)

// Device types recorded with each click.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// Parser wraps the uap-go parser with device type classification.
type Parser struct {
	parser *uaparser.Parser
}

// NewParser creates a parser backed by the uap-core definitions bundled with
// the library.
func NewParser() *Parser {
	return &Parser{parser: uaparser.NewFromSaved()}
}

// DeviceType returns a coarse device class for the given User-Agent string.
func (p *Parser) DeviceType(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}

	client := p.parser.Parse(userAgent)
	ua := strings.ToLower(userAgent)

	if isBot(client, ua) {
		return DeviceBot
	}
	if isTablet(client, ua) {
		return DeviceTablet
	}
	if isMobile(client, ua) {
		return DeviceMobile
	}
	return DeviceDesktop
}

func isBot(client *uaparser.Client, ua string) bool {
	if client.Device.Family == "Spider" {
		return true
	}
	for _, kw := range []string{"bot", "crawler", "spider", "curl", "wget"} {
		if strings.Contains(ua, kw) {
			return true
		}
	}
	return false
}

func isTablet(client *uaparser.Client, ua string) bool {
	family := strings.ToLower(client.Device.Family)
	if strings.Contains(family, "ipad") || strings.Contains(family, "tablet") {
		return true
	}
	for _, kw := range []string{"ipad", "tablet", "kindle", "silk", "playbook"} {
		if strings.Contains(ua, kw) {
			return true
		}
	}
	return false
}

func isMobile(client *uaparser.Client, ua string) bool {
	os := strings.ToLower(client.Os.Family)
	if os == "ios" || os == "android" || os == "windows phone" {
		return true
	}
	for _, kw := range []string{"mobile", "iphone", "ipod", "blackberry", "opera mini"} {
		if strings.Contains(ua, kw) {
			return true
		}
	}
	return false
}
