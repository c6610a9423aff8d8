package app

var (
	wrongMessages = []string{
		"Oops! That wasn't quite right. Let's try again.",
		"Close, but not quite. Give it another shot!",
		"Not exactly. One more try.",
		"Almost there! You can nail it.",
	}
	retryBanners = []string{
		"You missed this one before. Show it who's boss!",
		"Last time was tricky. Now you've got this!",
		"Retry time. Make it count!",
		"Wrong before; let's get it right now!",
	}
	correctMessages = []string{
		"Well done! That's correct.",
		"Great job, you got it!",
		"Fantastic! You nailed it.",
		"Correct, nice work!",
	}
)

// Banners is the feedback copy chosen once per card.
type Banners struct {
	Wrong   string
	Correct string
	Retry   string
}

func pickBanners(rnd Randomizer) Banners {
	return Banners{
		Wrong:   PickRandom(wrongMessages, rnd),
		Correct: PickRandom(correctMessages, rnd),
		Retry:   PickRandom(retryBanners, rnd),
	}
}

// PickRandom returns a uniformly chosen element of pool, or the zero value
// when pool is empty.
func PickRandom[T any](pool []T, rnd Randomizer) T {
	var zero T
	if len(pool) == 0 {
		return zero
	}
	return pool[rnd.Intn(len(pool))]
}
