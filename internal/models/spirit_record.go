package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SpiritProfileRecord is the stored form of a scored quiz. The spirit_* columns
// stay empty until an administrator fills in the spirit details.
type SpiritProfileRecord struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      string `json:"user_id" gorm:"not null;size:255;index"`
	ProfileCode string `json:"profile_code" gorm:"not null;size:32;index"`

	// Three highs
	PrimaryTrait   string `json:"primary_trait" gorm:"not null;size:3;index"`
	PrimaryScore   int    `json:"primary_score"`
	SecondaryTrait string `json:"secondary_trait" gorm:"not null;size:3"`
	SecondaryScore int    `json:"secondary_score"`
	TertiaryTrait  string `json:"tertiary_trait" gorm:"not null;size:3"`
	TertiaryScore  int    `json:"tertiary_score"`

	// Two lows
	MainShadow        string `json:"main_shadow" gorm:"not null;size:3"`
	MainShadowScore   int    `json:"main_shadow_score"`
	SecondShadow      string `json:"second_shadow" gorm:"not null;size:3"`
	SecondShadowScore int    `json:"second_shadow_score"`

	FullScores          datatypes.JSON `json:"full_scores" gorm:"type:jsonb"`  // map[TraitCode]int
	TestAnswers         datatypes.JSON `json:"test_answers" gorm:"type:jsonb"` // []Answer
	TestDurationMinutes *int           `json:"test_duration_minutes"`

	// Quiz session that produced the row; at most one row per session
	SessionID *string `json:"session_id,omitempty" gorm:"size:64;uniqueIndex"`

	// Spirit details, filled in by an administrator
	SpiritGenerated  bool           `json:"spirit_generated" gorm:"default:false;index"`
	SpiritTitle      *string        `json:"spirit_title" gorm:"size:200"`
	SpiritAppearance datatypes.JSON `json:"spirit_appearance" gorm:"type:jsonb"` // SpiritAppearance
	SpiritEssence    *string        `json:"spirit_essence" gorm:"type:text"`
	SpiritAmnesia    datatypes.JSON `json:"spirit_amnesia" gorm:"type:jsonb"` // SpiritAmnesia
	SpiritGrowth     datatypes.JSON `json:"spirit_growth" gorm:"type:jsonb"`  // SpiritGrowth
	SpiritPoem       *string        `json:"spirit_poem" gorm:"type:text"`
	GeneratedBy      *string        `json:"generated_by" gorm:"size:255"`
	GeneratedAt      *time.Time     `json:"generated_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (SpiritProfileRecord) TableName() string {
	return "spirit_profiles"
}

type SpiritAppearance struct {
	Hair     string   `json:"hair" validate:"required"`
	Eyes     string   `json:"eyes" validate:"required"`
	Aura     string   `json:"aura" validate:"required"`
	Features []string `json:"features"`
}

type SpiritAmnesia struct {
	Forgotten string `json:"forgotten" validate:"required"`
	Impact    string `json:"impact" validate:"required"`
}

type SpiritGrowth struct {
	Challenge string `json:"challenge" validate:"required"`
	Path      string `json:"path" validate:"required"`
	Blessing  string `json:"blessing" validate:"required"`
}

// SpiritDetails is the administrator-authored narrative attached to a profile.
type SpiritDetails struct {
	Title      string           `json:"spirit_title" validate:"required,max=200"`
	Appearance SpiritAppearance `json:"spirit_appearance" validate:"required"`
	Essence    string           `json:"spirit_essence" validate:"required"`
	Amnesia    SpiritAmnesia    `json:"spirit_amnesia" validate:"required"`
	Growth     SpiritGrowth     `json:"spirit_growth" validate:"required"`
	Poem       string           `json:"spirit_poem" validate:"required"`
}

// NewSpiritProfileRecord flattens a profile into its stored row.
func NewSpiritProfileRecord(userID string, profile *SpiritProfile, answers []Answer, durationMinutes *int) (*SpiritProfileRecord, error) {
	fullScores, err := json.Marshal(profile.FullScores())
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []Answer{}
	}
	testAnswers, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	return &SpiritProfileRecord{
		UserID:              userID,
		ProfileCode:         profile.ID,
		PrimaryTrait:        profile.ThreeHighs.Primary.Code,
		PrimaryScore:        profile.ThreeHighs.Primary.Normalized,
		SecondaryTrait:      profile.ThreeHighs.Secondary.Code,
		SecondaryScore:      profile.ThreeHighs.Secondary.Normalized,
		TertiaryTrait:       profile.ThreeHighs.Tertiary.Code,
		TertiaryScore:       profile.ThreeHighs.Tertiary.Normalized,
		MainShadow:          profile.TwoLows.MainShadow.Code,
		MainShadowScore:     profile.TwoLows.MainShadow.Normalized,
		SecondShadow:        profile.TwoLows.SecondShadow.Code,
		SecondShadowScore:   profile.TwoLows.SecondShadow.Normalized,
		FullScores:          datatypes.JSON(fullScores),
		TestAnswers:         datatypes.JSON(testAnswers),
		TestDurationMinutes: durationMinutes,
	}, nil
}

// Scores decodes the stored normalized score map.
func (r *SpiritProfileRecord) Scores() (map[TraitCode]int, error) {
	scores := make(map[TraitCode]int)
	if len(r.FullScores) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(r.FullScores, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// Answers decodes the stored answer log.
func (r *SpiritProfileRecord) Answers() ([]Answer, error) {
	var answers []Answer
	if len(r.TestAnswers) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(r.TestAnswers, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// SpiritStatus is the lightweight view used to tell a user whether their
// latest profile already has spirit details.
type SpiritStatus struct {
	ID              uint       `json:"id"`
	SpiritGenerated bool       `json:"spirit_generated"`
	CreatedAt       time.Time  `json:"created_at"`
	GeneratedAt     *time.Time `json:"generated_at"`
}
