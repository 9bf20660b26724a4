package models

// TraitCode identifies one of the twelve spirit archetypes (e.g. "ATH").
type TraitCode = string

type Trait struct {
	Code               TraitCode `json:"code"`
	Name               string    `json:"name"`
	Title              string    `json:"title"`
	CoreEnergy         string    `json:"coreEnergy"`
	ExtremeExpression  string    `json:"extremeExpression"`
	DeficiencySymptoms string    `json:"deficiencySymptoms"`
	Color              string    `json:"color"`
	Description        string    `json:"description"`
}
