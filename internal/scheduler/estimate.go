package scheduler

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultTaskHours = 4
	complexTaskHours = 8
	simpleTaskHours  = 2
	maxTaskHours     = 16

	longTitleRunes = 50
	longTitleBonus = 2
)

var (
	complexKeywords = []string{"implement", "develop", "design", "architecture", "integration", "complex", "refactor"}
	simpleKeywords  = []string{"fix", "update", "change", "small", "quick", "simple"}
)

// EstimateHours guesses how many hours a task takes from its title alone.
// Complex keywords are checked before simple ones, so a title matching both
// gets the complex estimate. Titles longer than 50 characters get two extra
// hours. The result never exceeds 16.
func EstimateHours(title string) int {
	lower := strings.ToLower(title)

	hours := defaultTaskHours
	switch {
	case containsAny(lower, complexKeywords):
		hours = complexTaskHours
	case containsAny(lower, simpleKeywords):
		hours = simpleTaskHours
	}

	if utf8.RuneCountInString(title) > longTitleRunes {
		hours += longTitleBonus
	}

	return min(hours, maxTaskHours)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
