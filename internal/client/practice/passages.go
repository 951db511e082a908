// Package practice scores typing runs.
package practice

import "math/rand/v2"

var passages = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Pack my box with five dozen liquor jugs.",
	"Sphinx of black quartz, judge my vow.",
	"How vexingly quick daft zebras jump!",
	"A journey of a thousand miles begins with a single step.",
	"Simplicity is prerequisite for reliability.",
	"Clear is better than clever.",
	"Don't communicate by sharing memory, share memory by communicating.",
}

// Passages returns the built-in practice texts.
func Passages() []string {
	out := make([]string, len(passages))
	copy(out, passages)
	return out
}

// Pick returns a random passage. A nil r uses the global source.
func Pick(r *rand.Rand) string {
	if r == nil {
		return passages[rand.IntN(len(passages))]
	}
	return passages[r.IntN(len(passages))]
}
