package game

import "fmt"

type Outcome int

const (
	Defeat Outcome = iota
	Victory
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "Victory"
	case Defeat:
		return "Defeat"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Victory":
		*o = Victory
	case "Defeat":
		*o = Defeat
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

const (
	baseScore        = 1000
	penaltyPerSecond = 10
)

// Score is zero for a defeat; a victory earns 1000 per difficulty factor minus
// 10 per elapsed second, floored at zero.
func Score(outcome Outcome, elapsedSeconds, difficultyFactor int) int {
	if outcome != Victory {
		return 0
	}
	return max(0, baseScore*difficultyFactor-elapsedSeconds*penaltyPerSecond)
}
