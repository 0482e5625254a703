package mechanics

import (
	"strings"
	"unicode"
)

// keywordRules are checked in order; the first rule with a word in the
// description starting with one of its keywords wins. fps precedes shooter
// so "first person shooter" resolves to fps.
var keywordRules = []struct {
	t        Type
	keywords []string
}{
	{FPS, []string{"first person", "fps", "corridor", "cockpit"}},
	{Shooter, []string{"shoot", "gun", "laser", "bullet", "alien", "spaceship", "space ship", "battle", "warfare"}},
	{ThirdPerson, []string{"third person", "adventur", "explor", "open world", "hero"}},
	{Puzzle, []string{"puzzle", "maze", "block", "logic", "riddle"}},
	{TopDown, []string{"top down", "overhead", "birdseye", "rpg", "village", "town"}},
	{Platformer, []string{"platform", "jump", "side scroll", "runner", "cliff", "ledge"}},
}

var sceneRules = map[string]Type{
	"interior":  TopDown,
	"room":      TopDown,
	"dungeon":   TopDown,
	"city":      ThirdPerson,
	"space":     Shooter,
	"abstract":  Puzzle,
	"landscape": Platformer,
	"outdoor":   Platformer,
}

// Suggest guesses a genre from a free-text description of an image and a
// coarse scene type. It is advisory: anything unrecognised is a platformer.
func Suggest(description, sceneType string) Type {
	d := " " + words(description) + " "
	for _, r := range keywordRules {
		for _, k := range r.keywords {
			if strings.Contains(d, " "+k) {
				return r.t
			}
		}
	}
	if t, ok := sceneRules[strings.ToLower(strings.TrimSpace(sceneType))]; ok {
		return t
	}
	return Platformer
}

// words lowercases s and collapses every run of non-letters to one space.
func words(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}
