package riot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingFor(t *testing.T) {
	cases := map[string]string{
		"br1": "americas", "la1": "americas", "la2": "americas", "na1": "americas",
		"eun1": "europe", "euw1": "europe", "ru": "europe", "tr1": "europe",
		"jp1": "asia", "kr": "asia",
		"oc1": "sea", "ph2": "sea", "sg2": "sea", "th2": "sea", "tw2": "sea", "vn2": "sea",
		"EUW1": "europe",
	}
	for region, want := range cases {
		assert.Equal(t, want, RoutingFor(region), region)
	}
}

func TestUnknownRegionUsesDefaultRouting(t *testing.T) {
	assert.Equal(t, DefaultRouting, RoutingFor("xx9"))
	assert.Equal(t, DefaultRouting, RoutingFor(""))
	assert.False(t, ValidRegion("xx9"))
	assert.Equal(t, "XX9", RegionName("xx9"))
	assert.Equal(t, "EUNE", RegionName("eun1"))
}

func TestParseRiotID(t *testing.T) {
	id, err := ParseRiotID("Hide on bush#KR1")
	require.NoError(t, err)
	assert.Equal(t, RiotID{"Hide on bush", "KR1"}, id)
	assert.Equal(t, "Hide on bush#KR1", id.String())

	id, err = ParseRiotID("a#b#c")
	require.NoError(t, err)
	assert.Equal(t, "b#c", id.TagLine)

	for _, bad := range []string{"", "nohash", "#tag", "name#", "  #  "} {
		_, err := ParseRiotID(bad)
		assert.ErrorIs(t, err, ErrInvalidRiotID, bad)
	}
}

func TestQueueName(t *testing.T) {
	assert.Equal(t, "Ranked Solo/Duo", QueueName(420))
	assert.Equal(t, "ARAM", QueueName(450))
	assert.Equal(t, "Queue 9999", QueueName(9999))
	assert.True(t, IsRanked(440))
	assert.False(t, IsRanked(450))
}

func TestSpellNames(t *testing.T) {
	assert.Equal(t, "Flash", SpellName(4))
	assert.Equal(t, "Ignite", SpellName(14))
	assert.Equal(t, "", SpellName(999))

	assert.Equal(t, "SummonerFlash", SpellKey(4))
	assert.Equal(t, "SummonerHaste", SpellKey(6))
	assert.Equal(t, "PoroToss", SpellKey(31))
	assert.Equal(t, "", SpellKey(999))
}
