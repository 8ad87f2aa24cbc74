// Package fingerprint classifies raw user-agent strings into structured
// device descriptors. Parsing is pure and deterministic: the same input
// always yields the same descriptor, and malformed input resolves to the
// Unknown sentinels instead of an error.
package fingerprint

import (
	"fmt"
	"strings"

	ua "github.com/mileusna/useragent"

	"github.com/openfleet/audittrail/internal/domain"
)

// windowsVersions maps Windows NT kernel versions to marketing names.
// NT 10.0 is shared by Windows 10 and 11, which cannot be told apart
// from the user-agent alone.
var windowsVersions = map[string]string{
	"10.0": "10/11",
	"6.3":  "8.1",
	"6.2":  "8",
	"6.1":  "7",
}

// browsers we report by name; everything else collapses to Unknown.
var knownBrowsers = map[string]string{
	ua.Edge:    "Edge",
	ua.Chrome:  "Chrome",
	ua.Firefox: "Firefox",
	ua.Safari:  "Safari",
	ua.Opera:   "Opera",
}

// Parse builds a DeviceDescriptor from a raw user-agent string.
func Parse(raw string) domain.DeviceDescriptor {
	d := domain.DeviceDescriptor{
		DeviceType: domain.DeviceUnknown,
		Browser:    domain.Unknown,
		OS:         domain.Unknown,
		UserAgent:  raw,
	}

	if strings.TrimSpace(raw) != "" {
		parsed := ua.Parse(raw)

		switch {
		case parsed.Mobile:
			d.DeviceType = domain.DeviceMobile
		case parsed.Tablet:
			d.DeviceType = domain.DeviceTablet
		default:
			d.DeviceType = domain.DeviceDesktop
		}

		// The parser already disambiguates Edge from Chrome and Chrome
		// from Safari, so a plain name lookup is safe here.
		if name, ok := knownBrowsers[parsed.Name]; ok {
			d.Browser = name
		}

		if parsed.OS != "" {
			d.OS = normalizeOS(parsed.OS, parsed.OSVersion)
		}
	}

	d.DeviceName = fmt.Sprintf("%s - %s (%s)", d.OS, d.Browser, d.DeviceType)
	return d
}

func normalizeOS(name, version string) string {
	if name == ua.Windows {
		if marketing, ok := windowsVersions[version]; ok {
			return "Windows " + marketing
		}
		return ua.Windows
	}
	if version == "" {
		return name
	}
	// Apple user-agents report versions with underscores.
	return name + " " + strings.ReplaceAll(version, "_", ".")
}
