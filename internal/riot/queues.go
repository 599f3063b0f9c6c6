package riot

import "fmt"

// Ranked queue ids.
const (
	QueueRankedSolo = 420
	QueueRankedFlex = 440
)

const SoloQueueType = "RANKED_SOLO_5x5"

var queueNames = map[int]string{
	0:    "Custom",
	400:  "Normal Draft",
	420:  "Ranked Solo/Duo",
	430:  "Normal Blind",
	440:  "Ranked Flex",
	450:  "ARAM",
	700:  "Clash",
	830:  "Co-op vs AI Intro",
	840:  "Co-op vs AI Beginner",
	850:  "Co-op vs AI Intermediate",
	900:  "ARURF",
	1020: "One for All",
	1300: "Nexus Blitz",
	1400: "Ultimate Spellbook",
	1700: "Arena",
	1900: "URF",
}

// QueueName returns a readable game mode for a queue id.
func QueueName(id int) string {
	if name, ok := queueNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Queue %d", id)
}

// IsRanked reports whether games in queue id award LP.
func IsRanked(id int) bool { return id == QueueRankedSolo || id == QueueRankedFlex }
