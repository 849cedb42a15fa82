package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceType(t *testing.T) {
	p := NewParser()

	cases := []struct {
		name string
		ua   string
		want string
	}{
		{
			"desktop_chrome",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			DeviceDesktop,
		},
		{
			"iphone",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			DeviceMobile,
		},
		{
			"ipad",
			"Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			DeviceTablet,
		},
		{
			"googlebot",
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			DeviceBot,
		},
		{
			"curl",
			"curl/8.4.0",
			DeviceBot,
		},
		{
			"empty",
			"",
			DeviceUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.DeviceType(tc.ua))
		})
	}
}
