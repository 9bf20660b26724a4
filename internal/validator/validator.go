package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/scoring"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator *validator.Validate
	bankValidator   *BankValidator
	traits          *catalog.TraitCatalog
}

// New creates a validator bound to the built-in trait catalog
func New() *Validator {
	return NewWithTraits(catalog.DefaultTraitCatalog())
}

// NewWithTraits creates a validator whose trait_code and profile_code rules
// check against traits
func NewWithTraits(traits *catalog.TraitCatalog) *Validator {
	structValidator := validator.New()

	v := &Validator{
		structValidator: structValidator,
		traits:          traits,
	}
	v.registerCustomValidators()
	v.bankValidator = NewBankValidator(v)
	return v
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Bank returns the question bank validator
func (v *Validator) Bank() *BankValidator {
	return v.bankValidator
}

// registerCustomValidators registers all custom validation functions
func (v *Validator) registerCustomValidators() {
	validate := v.structValidator

	validate.RegisterValidation("trait_code", v.validateTraitCode)
	validate.RegisterValidation("chapter_number", validateChapterNumber)
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("profile_code", v.validateProfileCode)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions
func (v *Validator) validateTraitCode(fl validator.FieldLevel) bool {
	return v.traits.Contains(fl.Field().String())
}

func validateChapterNumber(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= catalog.MinChapter && n <= catalog.MaxChapter
}

func validateQuestionType(fl validator.FieldLevel) bool {
	validTypes := []models.QuestionType{
		models.QuestionPoetic,
		models.QuestionSituation,
		models.QuestionDeep,
		models.QuestionShadow,
		models.QuestionSoul,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func (v *Validator) validateProfileCode(fl validator.FieldLevel) bool {
	_, err := scoring.ParseProfileID(fl.Field().String(), v.traits)
	return err == nil
}
