package models

// Answer is one response captured during a quiz session. When a question is
// answered more than once, the latest entry wins and Changed is set on it.
type Answer struct {
	QuestionID     string `json:"questionId" validate:"required"`
	SelectedOption int    `json:"selectedOption" validate:"min=0"`
	ResponseTimeMs int64  `json:"responseTimeMs" validate:"min=0"`
	Changed        bool   `json:"changed"`
}
