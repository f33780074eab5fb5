package state

import "fmt"

// Difficulty describes the challenge curve for one door world. The table
// is static and read-only; generation prompts consume it, the engine
// never mutates it.
type Difficulty struct {
	TargetTimeMinutes float64
	PuzzleComplexity  string // simple, moderate, complex, very_complex
	WorldSize         string // small, medium, large, very_large
	HintGenerosity    string // high, medium, low, minimal
	RequiredVirtues   []string
}

var difficultyCurve = map[int]Difficulty{
	1: {TargetTimeMinutes: 7.5, PuzzleComplexity: "simple", WorldSize: "small", HintGenerosity: "high", RequiredVirtues: []string{"kindness"}},
	2: {TargetTimeMinutes: 15, PuzzleComplexity: "moderate", WorldSize: "medium", HintGenerosity: "high", RequiredVirtues: []string{"curiosity"}},
	3: {TargetTimeMinutes: 30, PuzzleComplexity: "moderate", WorldSize: "medium", HintGenerosity: "medium", RequiredVirtues: []string{"courage"}},
	4: {TargetTimeMinutes: 45, PuzzleComplexity: "complex", WorldSize: "large", HintGenerosity: "medium", RequiredVirtues: []string{"gratitude"}},
	5: {TargetTimeMinutes: 75, PuzzleComplexity: "complex", WorldSize: "large", HintGenerosity: "low", RequiredVirtues: []string{"kindness", "curiosity"}},
	6: {TargetTimeMinutes: 150, PuzzleComplexity: "very_complex", WorldSize: "very_large", HintGenerosity: "minimal", RequiredVirtues: []string{"kindness", "curiosity", "courage", "gratitude"}},
}

var worldSizeRanges = map[string][2]int{
	"small":      {3, 5},
	"medium":     {5, 8},
	"large":      {8, 12},
	"very_large": {12, 20},
}

// DifficultyFor returns the difficulty settings for door n.
func DifficultyFor(n int) (Difficulty, error) {
	d, ok := difficultyCurve[n]
	if !ok {
		return Difficulty{}, fmt.Errorf("door number must be between 1 and %d, got %d", DoorCount, n)
	}
	virtues := make([]string, len(d.RequiredVirtues))
	copy(virtues, d.RequiredVirtues)
	d.RequiredVirtues = virtues
	return d, nil
}

// LocationCountRange returns the min and max location count for door n's
// world size.
func LocationCountRange(n int) (int, int) {
	d, err := DifficultyFor(n)
	if err != nil {
		return 5, 8
	}
	if r, ok := worldSizeRanges[d.WorldSize]; ok {
		return r[0], r[1]
	}
	return 5, 8
}
