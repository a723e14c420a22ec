package guidance

import "math"

// rule maps an error envelope to an operator hint. Rules are evaluated in
// order and the first match wins.
type rule struct {
	match func(az, el float64, locked bool) bool
	text  string
}

// Suggestion texts, in rule order.
const (
	SuggestLocked = "Perfect! Save this alignment."
	SuggestNear   = "Almost there! Fine-tune slowly."
	SuggestLarge  = "Large adjustment needed. Move steadily."
	SuggestKeepOn = "Keep adjusting. You're getting closer."
)

var suggestionRules = []rule{
	{func(_, _ float64, locked bool) bool { return locked }, SuggestLocked},
	{func(az, el float64, _ bool) bool { return az < 5 && el < 5 }, SuggestNear},
	{func(az, el float64, _ bool) bool { return az > 30 || el > 20 }, SuggestLarge},
}

func suggest(azDiff, elDiff float64, locked bool) string {
	az, el := math.Abs(azDiff), math.Abs(elDiff)
	for _, r := range suggestionRules {
		if r.match(az, el, locked) {
			return r.text
		}
	}
	return SuggestKeepOn
}
