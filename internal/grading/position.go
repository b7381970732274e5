package grading

import "strings"

type positionWords struct {
	noun   string // "shortstop"
	phrase string // "at shortstop"
}

var positionTable = map[string]positionWords{
	"C":           {"catcher", "at catcher"},
	"SS":          {"shortstop", "at shortstop"},
	"CF":          {"center fielder", "in center field"},
	"2B":          {"second baseman", "at second base"},
	"3B":          {"third baseman", "at third base"},
	"RF":          {"right fielder", "in right field"},
	"LF":          {"left fielder", "in left field"},
	"1B":          {"first baseman", "at first base"},
	"DH":          {"designated hitter", "as a designated hitter"},
	"SS/2B":       {"middle infielder", "as a middle infielder"},
	"2B/SS":       {"middle infielder", "as a middle infielder"},
	"SS/2B/CF":    {"up the middle defender", "as an up the middle defender"},
	"CF/SS/2B":    {"up the middle defender", "as an up the middle defender"},
	"1B/3B":       {"corner infielder", "as a corner infielder"},
	"3B/1B":       {"corner infielder", "as a corner infielder"},
	"1B/2B/3B/SS": {"utility infielder", "as a utility infielder"},
	"2B/3B/SS/1B": {"utility infielder", "as a utility infielder"},
	"1B/3B/OF":    {"corner player", "as a corner guy"},
	"3B/1B/OF":    {"corner player", "as a corner guy"},
	"1B/OF":       {"corner player", "as a corner guy"},
	"OF/1B":       {"corner player", "as a corner guy"},
	"2B/3B/OF":    {"utility player", "as a utility player"},
	"3B/2B/OF":    {"utility player", "as a utility player"},
	"OF":          {"outfielder", "as an outfielder"},
	"IF":          {"infielder", "as an infielder"},
}

// premiumPositions are the up-the-middle spots where average defense is
// worth mentioning.
var premiumPositions = []string{"C", "SS", "CF", "2B"}

// PositionNoun describes the position as a noun ("shortstop"). Unknown codes
// are returned unchanged.
func PositionNoun(position string) string {
	if w, ok := positionTable[position]; ok {
		return w.noun
	}
	return position
}

// PositionPhrase describes where the player fielded ("at shortstop").
func PositionPhrase(position string) string {
	if w, ok := positionTable[position]; ok {
		return w.phrase
	}
	return "at " + position
}

// IsPremiumDefensivePosition reports whether the position string contains
// C, SS, CF or 2B.
func IsPremiumDefensivePosition(position string) bool {
	for _, p := range premiumPositions {
		if strings.Contains(position, p) {
			return true
		}
	}
	return false
}

// IsCatcher reports whether any slash-separated component is "C".
func IsCatcher(position string) bool {
	for _, part := range strings.Split(position, "/") {
		if strings.TrimSpace(part) == "C" {
			return true
		}
	}
	return false
}
