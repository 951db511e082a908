package practice

import (
	"math"
	"time"

	"github.com/dmitrijs2005/typetutor/internal/accountapi"
)

// charsPerWord is the conventional word length used for WPM.
const charsPerWord = 5

type Result struct {
	WPM      float64
	Accuracy float64
	Correct  int
	Total    int
	Elapsed  time.Duration
}

// Score compares typed against target rune by rune at the same position.
func Score(target, typed string, elapsed time.Duration) Result {
	want := []rune(target)
	got := []rune(typed)

	correct := 0
	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] == got[i] {
			correct++
		}
	}

	res := Result{Correct: correct, Total: len(want), Elapsed: elapsed}
	if len(want) > 0 {
		res.Accuracy = round2(float64(correct) / float64(len(want)) * 100)
	}
	if minutes := elapsed.Minutes(); minutes > 0 {
		res.WPM = round2(float64(correct) / charsPerWord / minutes)
	}
	return res
}

// Wire converts r into the form sent with a profile update.
func (r Result) Wire() accountapi.PracticeResult {
	return accountapi.PracticeResult{
		WPM:        r.WPM,
		Accuracy:   r.Accuracy,
		DurationMs: r.Elapsed.Milliseconds(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
