package gamification

import "testing"

func TestLevelFor(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{16, 2},
		{24, 2},
		{25, 3},
		{50, 4},
		{100, 5},
		{200, 6},
		{350, 7},
		{550, 8},
		{800, 9},
		{1199, 9},
		{1200, 10},
		{5000, 10},
	}

	for _, tc := range testCases {
		if got := LevelFor(tc.points); got != tc.level {
			t.Errorf("LevelFor(%d) = %d, want %d", tc.points, got, tc.level)
		}
	}
}

func TestLevelForMonotonic(t *testing.T) {
	t.Parallel()
	prev := LevelFor(0)
	if prev != 1 {
		t.Fatalf("LevelFor(0) = %d, want 1", prev)
	}
	for p := 1; p <= 1300; p++ {
		level := LevelFor(p)
		if level < prev {
			t.Fatalf("LevelFor(%d) = %d decreased below LevelFor(%d) = %d", p, level, p-1, prev)
		}
		prev = level
	}
}

func TestLevelForIdempotent(t *testing.T) {
	t.Parallel()
	for _, p := range []int{0, 7, 10, 123, 1200} {
		if first, second := LevelFor(p), LevelFor(p); first != second {
			t.Errorf("LevelFor(%d) not stable: %d then %d", p, first, second)
		}
	}
}

func TestPointsToNextLevel(t *testing.T) {
	t.Parallel()

	// Adding the remaining points must land exactly on the next threshold.
	for p := 0; p < 1200; p++ {
		level := LevelFor(p)
		remaining, ok := PointsToNextLevel(p)
		if !ok {
			t.Fatalf("PointsToNextLevel(%d) reported max level but LevelFor = %d", p, level)
		}
		if remaining <= 0 {
			t.Fatalf("PointsToNextLevel(%d) = %d, want > 0", p, remaining)
		}
		if next := LevelFor(p + remaining); next != level+1 {
			t.Fatalf("LevelFor(%d + %d) = %d, want %d", p, remaining, next, level+1)
		}
	}

	if _, ok := PointsToNextLevel(1200); ok {
		t.Error("PointsToNextLevel(1200) should report max level")
	}
	if _, ok := PointsToNextLevel(9999); ok {
		t.Error("PointsToNextLevel(9999) should report max level")
	}
}
