package riot

import "strings"

type spell struct {
	name string
	key  string
}

// spells maps summoner spell ids to display names and Data Dragon image keys.
var spells = map[int]spell{
	1:  {"Cleanse", "SummonerBoost"},
	3:  {"Exhaust", "SummonerExhaust"},
	4:  {"Flash", "SummonerFlash"},
	6:  {"Ghost", "SummonerHaste"},
	7:  {"Heal", "SummonerHeal"},
	11: {"Smite", "SummonerSmite"},
	12: {"Teleport", "SummonerTeleport"},
	13: {"Clarity", "SummonerMana"},
	14: {"Ignite", "SummonerDot"},
	21: {"Barrier", "SummonerBarrier"},
	30: {"To the King!", ""},
	31: {"Poro Toss", ""},
	32: {"Mark", "SummonerSnowball"},
	39: {"Ultra Rapid Fire", ""},
	54: {"Placeholder", ""},
	55: {"Placeholder and Attack", ""},
}

// SpellName returns the summoner spell's name, or "" for an unknown id.
func SpellName(id int) string {
	return spells[id].name
}

// SpellKey returns the Data Dragon image name for a summoner spell, or ""
// for an unknown id. Spells without a known key use their name with spaces
// removed.
func SpellKey(id int) string {
	s, ok := spells[id]
	if !ok {
		return ""
	}
	if s.key != "" {
		return s.key
	}
	return strings.ReplaceAll(s.name, " ", "")
}
