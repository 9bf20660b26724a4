package validator

import (
	"fmt"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

// BankValidator checks question content against the struct rules, on top of
// the structural checks the catalog performs when a bank is built.
type BankValidator struct {
	v *Validator
}

func NewBankValidator(v *Validator) *BankValidator {
	return &BankValidator{v: v}
}

// ValidateQuestion validates a single question and its options
func (b *BankValidator) ValidateQuestion(question models.Question) error {
	if err := b.v.Validate(question); err != nil {
		return fmt.Errorf("question %s: %w", question.ID, err)
	}
	return nil
}

// ValidateChapter validates chapter display metadata
func (b *BankValidator) ValidateChapter(chapter models.Chapter) error {
	if err := b.v.Validate(chapter); err != nil {
		return fmt.Errorf("chapter %d: %w", chapter.Number, err)
	}
	return nil
}

// ValidateBank validates every chapter and question of bank
func (b *BankValidator) ValidateBank(bank *catalog.QuestionBank) error {
	for _, ch := range bank.Chapters() {
		if err := b.ValidateChapter(ch); err != nil {
			return err
		}
	}
	for _, q := range bank.Questions() {
		if err := b.ValidateQuestion(q); err != nil {
			return err
		}
	}
	return nil
}
