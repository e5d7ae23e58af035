package session

import "testing"

func TestCountDeltasAppend(t *testing.T) {
	passage := []rune("cat")
	d := countDeltas([]rune(""), []rune("ca"), passage)
	if d.total != 2 || d.correct != 2 {
		t.Fatalf("unexpected deltas: %+v", d)
	}
}

func TestCountDeltasAppendMismatch(t *testing.T) {
	passage := []rune("cat")
	d := countDeltas([]rune("c"), []rune("cx"), passage)
	if d.total != 1 || d.correct != 0 {
		t.Fatalf("unexpected deltas: %+v", d)
	}
}

func TestCountDeltasDeleteMatched(t *testing.T) {
	passage := []rune("cat")
	d := countDeltas([]rune("ca"), []rune("c"), passage)
	if d.total != 0 {
		t.Fatalf("total must not move on delete, got %d", d.total)
	}
	if d.correct != -1 {
		t.Fatalf("expected correct delta -1, got %d", d.correct)
	}
}

func TestCountDeltasDeleteMismatched(t *testing.T) {
	passage := []rune("cat")
	d := countDeltas([]rune("cx"), []rune("c"), passage)
	if d.total != 0 || d.correct != 0 {
		t.Fatalf("unexpected deltas: %+v", d)
	}
}

func TestCountDeltasNoChange(t *testing.T) {
	passage := []rune("cat")
	d := countDeltas([]rune("ca"), []rune("ca"), passage)
	if d.total != 0 || d.correct != 0 {
		t.Fatalf("unexpected deltas: %+v", d)
	}
}

func TestCountDeltasBeyondPassage(t *testing.T) {
	passage := []rune("ab")
	d := countDeltas([]rune("ab"), []rune("abc"), passage)
	if d.total != 1 || d.correct != 0 {
		t.Fatalf("chars past the passage must count as incorrect: %+v", d)
	}
	d = countDeltas([]rune("abc"), []rune("ab"), passage)
	if d.total != 0 || d.correct != 0 {
		t.Fatalf("unexpected deltas after trimming overflow: %+v", d)
	}
}
