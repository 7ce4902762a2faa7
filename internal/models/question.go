package models

const OptionCount = 4

type Question struct {
	ID           string   `bson:"_id,omitempty" json:"id"`
	ThemeID      string   `bson:"theme_id" json:"theme_id"`
	Text         string   `bson:"text" json:"text"`
	Options      []string `bson:"options" json:"options"`
	CorrectIndex int      `bson:"correct_index" json:"correct_index"`
	Difficulty   string   `bson:"difficulty" json:"difficulty"`
	Status       string   `bson:"status" json:"status"`
}

// DifficultyMultipliers defines score multipliers per difficulty tag.
var DifficultyMultipliers = map[string]float64{
	"easy":   1.0,
	"medium": 1.2,
	"hard":   1.5,
}

// DifficultyMultiplier returns the score multiplier for the question,
// falling back to 1.0 for unknown tags.
func (q *Question) DifficultyMultiplier() float64 {
	if m, ok := DifficultyMultipliers[q.Difficulty]; ok {
		return m
	}
	return 1.0
}

// Valid reports whether the question is playable: non-empty text,
// exactly four options and a correct index inside them.
func (q *Question) Valid() bool {
	return q.Text != "" &&
		len(q.Options) == OptionCount &&
		q.CorrectIndex >= 0 && q.CorrectIndex < OptionCount
}

// ValidOptionIndex reports whether a submitted option index is in range.
func ValidOptionIndex(i int) bool {
	return i >= 0 && i < OptionCount
}
