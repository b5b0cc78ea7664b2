package fetcher

import (
	"strings"

	"github.com/nao1215/compatscan/internal/model"
)

// Identity is the resolved user-agent string used to fetch a page variant.
// The empty identity means "no identity resolvable": those combinations
// share the baseline fetch.
type Identity string

// Baseline is the identity of the un-keyed baseline fetch.
const Baseline Identity = ""

// deviceUserAgents maps well-known device names to default user agents.
// Device defaults take precedence over browser defaults because a device
// profile implies a whole platform, not just an engine.
var deviceUserAgents = map[string]string{
	"desktop": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"tablet":  "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"mobile":  "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
}

// browserUserAgents maps well-known browser family names to default user
// agents.
var browserUserAgents = map[string]string{
	"chrome":  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"firefox": "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"safari":  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"edge":    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
	"ie":      "Mozilla/5.0 (Windows NT 10.0; Trident/7.0; rv:11.0) like Gecko",
}

// ResolveIdentity derives the client identity for one browser×device
// combination. Precedence: explicit override on the browser, explicit
// override on the device, the named default for the device, the named
// default for the browser, and finally the empty (baseline) identity.
func ResolveIdentity(browser model.BrowserProfile, device model.DeviceProfile) Identity {
	if browser.UserAgentOverride != "" {
		return Identity(browser.UserAgentOverride)
	}
	if device.UserAgentOverride != "" {
		return Identity(device.UserAgentOverride)
	}
	if ua, ok := deviceUserAgents[strings.ToLower(device.Name)]; ok {
		return Identity(ua)
	}
	if ua, ok := browserUserAgents[strings.ToLower(browser.Name)]; ok {
		return Identity(ua)
	}
	return Baseline
}

// DistinctIdentities resolves every browser×device combination and returns
// the de-duplicated identity set in first-seen order. The baseline identity
// is never included; callers fetch the baseline unconditionally.
func DistinctIdentities(browsers []model.BrowserProfile, devices []model.DeviceProfile) []Identity {
	seen := make(map[Identity]bool)
	identities := make([]Identity, 0)
	for _, b := range browsers {
		for _, d := range devices {
			id := ResolveIdentity(b, d)
			if id == Baseline || seen[id] {
				continue
			}
			seen[id] = true
			identities = append(identities, id)
		}
	}
	return identities
}
