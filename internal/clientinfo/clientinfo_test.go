package clientinfo

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		userAgent   string
		wantDevice  string
		wantModel   string
		wantOS      string
		wantBrowser string
		wantVersion string
	}{
		{
			name:        "chrome on windows",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			wantDevice:  "desktop",
			wantModel:   "unknown",
			wantOS:      "Windows",
			wantBrowser: "Chrome",
			wantVersion: "120.0.0.0",
		},
		{
			name:        "safari on iphone",
			userAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			wantDevice:  "mobile",
			wantModel:   "iPhone",
			wantOS:      "iOS",
			wantBrowser: "Safari",
			wantVersion: "17.0",
		},
		{
			name:        "chrome on android phone",
			userAgent:   "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantDevice:  "mobile",
			wantModel:   "Pixel 8",
			wantOS:      "Android",
			wantBrowser: "Chrome",
			wantVersion: "120.0.0.0",
		},
		{
			name:        "android tablet",
			userAgent:   "Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			wantDevice:  "tablet",
			wantModel:   "SM-X710",
			wantOS:      "Android",
			wantBrowser: "Chrome",
			wantVersion: "119.0.0.0",
		},
		{
			name:        "ipad",
			userAgent:   "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			wantDevice:  "tablet",
			wantModel:   "iPad",
			wantOS:      "iPadOS",
			wantBrowser: "Safari",
			wantVersion: "16.6",
		},
		{
			name:        "firefox on linux",
			userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantDevice:  "desktop",
			wantModel:   "unknown",
			wantOS:      "Linux",
			wantBrowser: "Firefox",
			wantVersion: "121.0",
		},
		{
			name:        "edge advertises chrome",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91",
			wantDevice:  "desktop",
			wantModel:   "unknown",
			wantOS:      "Windows",
			wantBrowser: "Edge",
			wantVersion: "120.0.2210.91",
		},
		{
			name:        "opera advertises chrome",
			userAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36 OPR/105.0.0.0",
			wantDevice:  "desktop",
			wantModel:   "unknown",
			wantOS:      "macOS",
			wantBrowser: "Opera",
			wantVersion: "105.0.0.0",
		},
		{
			name:        "empty user agent",
			userAgent:   "",
			wantDevice:  "unknown",
			wantModel:   "unknown",
			wantOS:      "unknown",
			wantBrowser: "unknown",
			wantVersion: "",
		},
		{
			name:        "unrecognized agent",
			userAgent:   "curl/8.4.0",
			wantDevice:  "desktop",
			wantModel:   "unknown",
			wantOS:      "unknown",
			wantBrowser: "unknown",
			wantVersion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Parse(tt.userAgent)
			if info.DeviceType != tt.wantDevice {
				t.Errorf("DeviceType = %q, want %q", info.DeviceType, tt.wantDevice)
			}
			if info.Model != tt.wantModel {
				t.Errorf("Model = %q, want %q", info.Model, tt.wantModel)
			}
			if info.OS != tt.wantOS {
				t.Errorf("OS = %q, want %q", info.OS, tt.wantOS)
			}
			if info.Browser != tt.wantBrowser {
				t.Errorf("Browser = %q, want %q", info.Browser, tt.wantBrowser)
			}
			if info.BrowserVersion != tt.wantVersion {
				t.Errorf("BrowserVersion = %q, want %q", info.BrowserVersion, tt.wantVersion)
			}
		})
	}
}
