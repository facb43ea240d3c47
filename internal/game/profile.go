package game

import (
	"fmt"
	"strings"
)

// Profile is a difficulty preset.
type Profile struct {
	Key         string `json:"key" yaml:"key"`
	Name        string `json:"name" yaml:"name"`
	Rows        int    `json:"rows" yaml:"rows"`
	Cols        int    `json:"cols" yaml:"cols"`
	Mines       int    `json:"mines" yaml:"mines"`
	ScoreFactor int    `json:"score_factor" yaml:"score_factor"`
}

var (
	Easy   = Profile{Key: "easy", Name: "Easy", Rows: 10, Cols: 10, Mines: 10, ScoreFactor: 1}
	Medium = Profile{Key: "medium", Name: "Medium", Rows: 16, Cols: 16, Mines: 40, ScoreFactor: 2}
	Hard   = Profile{Key: "hard", Name: "Hard", Rows: 16, Cols: 30, Mines: 99, ScoreFactor: 3}
)

// menu choices accepted alongside the profile keys
var profileChoices = map[string]Profile{
	"1": Easy,
	"2": Medium,
	"3": Hard,
}

func Profiles() []Profile {
	return []Profile{Easy, Medium, Hard}
}

func LookupProfile(key string) (Profile, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if p, ok := profileChoices[key]; ok {
		return p, nil
	}
	for _, p := range Profiles() {
		if p.Key == key || strings.ToLower(p.Name) == key {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: unknown difficulty %q", ErrConfiguration, key)
}

func (p Profile) Validate() error {
	if err := validateDimensions(p.Rows, p.Cols, p.Mines); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if p.ScoreFactor < 1 {
		return fmt.Errorf("%w: profile %s score factor must be positive", ErrConfiguration, p.Name)
	}
	return nil
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%dx%d with %d mines)", p.Name, p.Rows, p.Cols, p.Mines)
}
