package game

import (
	"math/rand/v2"
	"testing"
)

func testPool(n int) []ImageItem {
	pool := make([]ImageItem, n)
	for i := range pool {
		pool[i] = ImageItem{ID: string(rune('a' + i))}
	}
	return pool
}

func TestSelectRoundEmptyPool(t *testing.T) {
	if got := SelectRound(nil, 5, nil); len(got) != 0 {
		t.Errorf("expected empty selection, got %d items", len(got))
	}
}

func TestSelectRoundTruncates(t *testing.T) {
	got := SelectRound(testPool(10), 4, nil)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
}

func TestSelectRoundSmallPool(t *testing.T) {
	got := SelectRound(testPool(2), 5, nil)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestSelectRoundNoDuplicates(t *testing.T) {
	got := SelectRound(testPool(8), 8, nil)
	seen := make(map[string]bool, len(got))
	for _, item := range got {
		if seen[item.ID] {
			t.Fatalf("duplicate item %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestSelectRoundSeededReproducible(t *testing.T) {
	pool := testPool(10)

	a := SelectRound(pool, 5, rand.New(rand.NewPCG(42, 0)))
	b := SelectRound(pool, 5, rand.New(rand.NewPCG(42, 0)))

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("position %d: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}

func TestSelectRoundDoesNotMutatePool(t *testing.T) {
	pool := testPool(6)
	SelectRound(pool, 6, rand.New(rand.NewPCG(1, 0)))

	for i, item := range pool {
		if item.ID != string(rune('a'+i)) {
			t.Fatalf("pool mutated at %d: %q", i, item.ID)
		}
	}
}
