package riot

import (
	"fmt"
	"strings"
)

// DefaultRouting is used for region codes missing from the routing table.
const DefaultRouting = "americas"

// Region is a League platform.
type Region struct {
	Code    string
	Name    string
	Routing string
}

var regions = []Region{
	{"euw1", "EUW", "europe"},
	{"eun1", "EUNE", "europe"},
	{"na1", "NA", "americas"},
	{"kr", "KR", "asia"},
	{"br1", "BR", "americas"},
	{"la1", "LAN", "americas"},
	{"la2", "LAS", "americas"},
	{"oc1", "OCE", "sea"},
	{"tr1", "TR", "europe"},
	{"ru", "RU", "europe"},
	{"jp1", "JP", "asia"},
	{"ph2", "PH", "sea"},
	{"sg2", "SG", "sea"},
	{"th2", "TH", "sea"},
	{"tw2", "TW", "sea"},
	{"vn2", "VN", "sea"},
}

// Regions lists every known platform in display order.
func Regions() []Region { return append([]Region(nil), regions...) }

func lookup(code string) (Region, bool) {
	code = Platform(code)
	for _, r := range regions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}

// Platform normalizes a region code to its platform host name.
func Platform(region string) string { return strings.ToLower(strings.TrimSpace(region)) }

// RoutingFor returns the regional routing cluster for a platform code.
func RoutingFor(region string) string {
	if r, ok := lookup(region); ok {
		return r.Routing
	}
	return DefaultRouting
}

// RegionName returns the short display name, or the upper-cased code.
func RegionName(region string) string {
	if r, ok := lookup(region); ok {
		return r.Name
	}
	return strings.ToUpper(region)
}

// ValidRegion reports whether region is in the routing table.
func ValidRegion(region string) bool {
	_, ok := lookup(region)
	return ok
}

// RiotID is a player identity of the form GameName#TAG.
type RiotID struct {
	GameName string
	TagLine  string
}

func (id RiotID) String() string { return id.GameName + "#" + id.TagLine }

// ParseRiotID splits s on its first '#'. Both halves must be non-empty.
func ParseRiotID(s string) (RiotID, error) {
	name, tag, ok := strings.Cut(strings.TrimSpace(s), "#")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(tag) == "" {
		return RiotID{}, fmt.Errorf("%w: %q", ErrInvalidRiotID, s)
	}
	return RiotID{GameName: strings.TrimSpace(name), TagLine: strings.TrimSpace(tag)}, nil
}
