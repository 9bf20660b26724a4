package models

type QuestionType string

const (
	QuestionPoetic    QuestionType = "poetic"
	QuestionSituation QuestionType = "situation"
	QuestionDeep      QuestionType = "deep"
	QuestionShadow    QuestionType = "shadow"
	QuestionSoul      QuestionType = "soul"
)

type Question struct {
	ID      string           `json:"id" yaml:"id" validate:"required"`
	Chapter int              `json:"chapter" yaml:"chapter" validate:"chapter_number"`
	Text    string           `json:"text" yaml:"text" validate:"required"`
	Type    QuestionType     `json:"type" yaml:"type" validate:"question_type"`
	Weight  float64          `json:"weight" yaml:"weight" validate:"gt=0"`
	Options []QuestionOption `json:"options" yaml:"options" validate:"required,min=1,dive"`
}

// QuestionOption maps trait codes to signed score deltas. Traits missing
// from Scores are unaffected by the option.
type QuestionOption struct {
	Text   string            `json:"text" yaml:"text" validate:"required"`
	Scores map[TraitCode]int `json:"scores" yaml:"scores" validate:"dive,keys,trait_code,endkeys"`
}

// Chapter holds the display metadata shown around a block of questions.
type Chapter struct {
	Number      int    `json:"number" yaml:"number" validate:"chapter_number"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Subtitle    string `json:"subtitle" yaml:"subtitle"`
	Description string `json:"description" yaml:"description"`
	RestStation string `json:"restStation" yaml:"rest_station"`
}
