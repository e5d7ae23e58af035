// Package passage holds the typing passage corpus and selection.
package passage

import (
	"math/rand"
	"time"
)

// Corpus is the fixed set of candidate passages.
var Corpus = []string{
	"In the world of coding, skill grows not from random moments but from steady and focused work that turns new programmers into masters who link ideas with clear steps, using their time and energy wisely to solve hard problems and build systems that stand the test of time.",
	"In the deep systems of tech, typing speed is more than just input; it becomes a sign of clear and strong thought where each press turns complex and abstract ideas into real results, bridging the gap between imagination and working code that shapes the digital world.",
	"Clear and simple code is like the glue of smooth and productive work where every small and careful line changes messy and scattered ideas into neat and organized ones, speeding up progress with fixes that are smart, quick, and precise, creating tools that make life easier.",
	"Typing well is like a skill where hands move fast and true, turning thoughts into code that pushes what humans can do with tech even further, allowing ideas to flow freely and opening the door to new possibilities that were once beyond reach.",
	"Good habits in typing cut down strain by making work smooth and easy while turning tough and tiring tasks into simple and clear flows, letting people create more, stay focused, and work longer without feeling the heavy toll of fatigue and stress.",
}

// Picker selects passages uniformly at random.
type Picker struct {
	rnd      *rand.Rand
	passages []string
}

// NewPicker returns a Picker over the default corpus seeded with the current time.
func NewPicker() *Picker {
	return NewPickerFrom(Corpus, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPickerFrom returns a Picker over the given passages using the given source.
func NewPickerFrom(passages []string, rnd *rand.Rand) *Picker {
	return &Picker{rnd: rnd, passages: passages}
}

// Pick returns one passage chosen uniformly at random.
func (p *Picker) Pick() string {
	return p.passages[p.rnd.Intn(len(p.passages))]
}
