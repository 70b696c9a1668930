package mainframequiz

import "math/rand"

// ShuffleOptions returns a copy of q with its options uniformly permuted and
// the correct index recomputed. The set of option texts and the identity of
// the correct text are preserved; only positional order changes. The rand
// source is injected so tests can be deterministic. A nil rng uses the
// shared source.
func ShuffleOptions(q Question, rng *rand.Rand) Question {
	correctText := q.Options[q.CorrectAnswer]

	shuffled := make([]string, len(q.Options))
	copy(shuffled, q.Options)
	if rng != nil {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	} else {
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	}

	out := q
	out.Options = shuffled
	for i, opt := range shuffled {
		if opt == correctText {
			out.CorrectAnswer = i
			break
		}
	}
	return out
}
