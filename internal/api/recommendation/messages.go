package recommendation

import (
	"math/rand/v2"
	"sync"
)

var responseMessages = []string{
	"Here are some spots your group might enjoy!",
	"Based on your chat, these places look like a good fit.",
	"I found a few places that match what everyone has been talking about.",
	"Your next group outing, sorted. Check out these picks.",
}

// MessagePicker chooses the headline message of a response.
type MessagePicker interface {
	Pick(options []string) string
}

// RandomPicker picks uniformly with a seeded generator. Safe for concurrent use.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPicker(seed uint64) *RandomPicker {
	return &RandomPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *RandomPicker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return options[p.rng.IntN(len(options))]
}

// FixedPicker always picks the option at its index, wrapping around.
type FixedPicker int

func (f FixedPicker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	i := int(f) % len(options)
	if i < 0 {
		i += len(options)
	}
	return options[i]
}
