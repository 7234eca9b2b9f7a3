// Package dice implements the deterministic pseudorandom source the rest
// of the engine rolls against: sums of NdM dice, and the "NdM" string
// parsing content tables use to describe damage and check dice.
package dice

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Roller is a seedable source of dice rolls. Production code seeds one per
// session; tests seed a fixed value for reproducibility.
type Roller struct {
	rng *rand.Rand
}

// New returns a Roller seeded from seed. Two Rollers built from the same
// seed produce the same roll sequence.
func New(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Roll sums n independent uniform draws in [1,m]. n or m <= 0 returns 0.
func (r *Roller) Roll(n, m int) int {
	if n <= 0 || m <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += r.rng.Intn(m) + 1
	}
	return total
}

// Intn returns a uniform draw in [0,n). Panics if n <= 0, matching
// math/rand.Rand.Intn — callers pass validated bounds.
func (r *Roller) Intn(n int) int {
	return r.rng.Intn(n)
}

// Float64 returns a uniform draw in [0.0,1.0).
func (r *Roller) Float64() float64 {
	return r.rng.Float64()
}

// Die is a parsed "NdM" expression: N dice of M sides.
type Die struct {
	N int
	M int
}

// ErrInvalidDie reports a malformed die string.
type ErrInvalidDie struct {
	Raw string
}

func (e *ErrInvalidDie) Error() string {
	return fmt.Sprintf("invalid die string %q", e.Raw)
}

// ParseDie parses a "NdM" string such as "5d4" or "8d7". On failure it
// returns ErrInvalidDie; RollDie substitutes the fallback die "1d4" rather
// than treat this as fatal — see spec §4.1 and §7. No caller in this
// repository logs the substitution.
func ParseDie(s string) (Die, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "d", 2)
	if len(parts) != 2 {
		return Die{}, &ErrInvalidDie{Raw: s}
	}
	n, errN := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errN != nil || errM != nil || n <= 0 || m <= 0 {
		return Die{}, &ErrInvalidDie{Raw: s}
	}
	return Die{N: n, M: m}, nil
}

// FallbackDie is substituted whenever a data-table die string fails to parse.
var FallbackDie = Die{N: 1, M: 4}

// RollDie rolls the die described by s, substituting FallbackDie and
// reporting ok=false on a malformed string so the caller can log it once.
func (r *Roller) RollDie(s string) (result int, ok bool) {
	d, err := ParseDie(s)
	if err != nil {
		d = FallbackDie
		return r.Roll(d.N, d.M), false
	}
	return r.Roll(d.N, d.M), true
}
