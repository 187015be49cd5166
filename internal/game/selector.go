package game

import "math/rand/v2"

// SelectRound draws count questions from pool, uniformly shuffled, without
// replacement. The result is shorter than count when the pool is smaller;
// an empty pool yields an empty sequence, which callers must treat as "no
// playable round". rng may be seeded for reproducible selection in tests;
// nil falls back to the shared global source.
func SelectRound(pool []ImageItem, count int, rng *rand.Rand) []ImageItem {
	if count > len(pool) {
		count = len(pool)
	}
	if count <= 0 {
		return nil
	}

	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}

	picked := make([]ImageItem, len(pool))
	copy(picked, pool)
	shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:count]
}
