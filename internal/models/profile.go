package models

import "time"

type TraitScore struct {
	Code       TraitCode `json:"code"`
	Score      float64   `json:"score"`      // raw weighted accumulation
	Normalized int       `json:"normalized"` // 0-100
}

type ThreeHighs struct {
	Primary   TraitScore `json:"primary"`
	Secondary TraitScore `json:"secondary"`
	Tertiary  TraitScore `json:"tertiary"`
}

type TwoLows struct {
	MainShadow   TraitScore `json:"mainShadow"`
	SecondShadow TraitScore `json:"secondShadow"`
}

// SpiritProfile is the immutable result of scoring one completed quiz.
type SpiritProfile struct {
	ID          string       `json:"id"`
	ThreeHighs  ThreeHighs   `json:"threeHighs"`
	TwoLows     TwoLows      `json:"twoLows"`
	MiddleGods  []TraitScore `json:"middleGods"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// Ranked returns every trait score in rank order, highest first.
func (p *SpiritProfile) Ranked() []TraitScore {
	ranked := make([]TraitScore, 0, len(p.MiddleGods)+5)
	ranked = append(ranked, p.ThreeHighs.Primary, p.ThreeHighs.Secondary, p.ThreeHighs.Tertiary)
	ranked = append(ranked, p.MiddleGods...)
	ranked = append(ranked, p.TwoLows.MainShadow, p.TwoLows.SecondShadow)
	return ranked
}

// FullScores returns the normalized score of every trait keyed by code.
func (p *SpiritProfile) FullScores() map[TraitCode]int {
	scores := make(map[TraitCode]int, len(p.MiddleGods)+5)
	for _, ts := range p.Ranked() {
		scores[ts.Code] = ts.Normalized
	}
	return scores
}
