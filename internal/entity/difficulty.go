package entity

// Difficulty selects the creation-roll dice (spec §4.8 "Difficulty").
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// CreationDie returns the NdM the creation phase rolls seven times to
// produce attribute values, one per difficulty.
func (d Difficulty) CreationDie() (n, m int) {
	switch d {
	case Easy:
		return 6, 5
	case Hard:
		return 4, 5
	default: // Normal
		return 5, 5
	}
}
