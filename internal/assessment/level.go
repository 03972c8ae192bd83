package assessment

import "fmt"

// CEFRLevel is a proficiency level on the CEFR scale.
type CEFRLevel string

const (
	LevelA1 CEFRLevel = "A1"
	LevelA2 CEFRLevel = "A2"
	LevelB1 CEFRLevel = "B1"
	LevelB2 CEFRLevel = "B2"
	LevelC1 CEFRLevel = "C1"
	LevelC2 CEFRLevel = "C2"
)

// levelOrder fixes the total order of the scale: A1 lowest, C2 highest.
var levelOrder = []CEFRLevel{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// Levels returns all CEFR levels in ascending order of proficiency.
func Levels() []CEFRLevel {
	out := make([]CEFRLevel, len(levelOrder))
	copy(out, levelOrder)
	return out
}

// Valid reports whether l is one of the six CEFR levels.
func (l CEFRLevel) Valid() bool {
	for _, known := range levelOrder {
		if l == known {
			return true
		}
	}
	return false
}

// Index returns the position of l on the scale (A1=0 .. C2=5), or -1 if
// l is not a valid level.
func (l CEFRLevel) Index() int {
	for i, known := range levelOrder {
		if l == known {
			return i
		}
	}
	return -1
}

// AtLeast reports whether l is at or above other on the proficiency scale.
// Both levels must be valid.
func (l CEFRLevel) AtLeast(other CEFRLevel) bool {
	return l.Index() >= other.Index()
}

// ParseLevel validates a string as a CEFR level.
func ParseLevel(s string) (CEFRLevel, error) {
	l := CEFRLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown CEFR level: %q", s)
	}
	return l, nil
}
