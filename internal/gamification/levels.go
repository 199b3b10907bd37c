package gamification

// MaxLevel is the highest reachable level.
const MaxLevel = 10

// levelThresholds[i] is the minimum cumulative points for level i+1.
// Strictly increasing; level 1 starts at zero.
var levelThresholds = [MaxLevel]int{0, 10, 25, 50, 100, 200, 350, 550, 800, 1200}

// LevelFor maps cumulative points to a level in [1, MaxLevel]. Pure function;
// callers guarantee points >= 0.
func LevelFor(points int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}
	return level
}

// PointsToNextLevel returns how many points are missing until the next level.
// ok is false when the user is already at MaxLevel.
func PointsToNextLevel(points int) (remaining int, ok bool) {
	level := LevelFor(points)
	if level == MaxLevel {
		return 0, false
	}
	return levelThresholds[level] - points, true
}
