package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	MinChapter = 1
	MaxChapter = 5
)

//go:embed data/questions.yaml
var defaultBankYAML []byte

type bankDocument struct {
	Version   int               `yaml:"version"`
	Chapters  []models.Chapter  `yaml:"chapters"`
	Questions []models.Question `yaml:"questions"`
}

// QuestionBank is an ordered, read-only question sequence grouped into
// contiguous chapters. Values returned from it share backing data with the
// bank and must not be modified.
type QuestionBank struct {
	version   int
	questions []models.Question
	byID      map[string]int
	chapters  map[int]models.Chapter
	order     []int
}

// LoadQuestionBank parses a YAML question bank and validates it against traits.
func LoadQuestionBank(data []byte, traits *TraitCatalog) (*QuestionBank, error) {
	var doc bankDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	bank, err := NewQuestionBank(doc.Questions, doc.Chapters, traits)
	if err != nil {
		return nil, err
	}
	bank.version = doc.Version
	return bank, nil
}

// NewQuestionBank validates questions and chapters and builds a bank. Any
// option score keyed by a code outside traits fails with ErrUnknownTraitCode.
func NewQuestionBank(questions []models.Question, chapters []models.Chapter, traits *TraitCatalog) (*QuestionBank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidBank)
	}

	b := &QuestionBank{
		questions: make([]models.Question, len(questions)),
		byID:      make(map[string]int, len(questions)),
		chapters:  make(map[int]models.Chapter, len(chapters)),
	}
	copy(b.questions, questions)

	for _, ch := range chapters {
		if ch.Number < MinChapter || ch.Number > MaxChapter {
			return nil, fmt.Errorf("%w: chapter number %d outside %d-%d", ErrInvalidBank, ch.Number, MinChapter, MaxChapter)
		}
		if _, dup := b.chapters[ch.Number]; dup {
			return nil, fmt.Errorf("%w: duplicate chapter %d", ErrInvalidBank, ch.Number)
		}
		b.chapters[ch.Number] = ch
	}

	prevChapter := MinChapter
	for i, q := range b.questions {
		if q.ID == "" {
			return nil, fmt.Errorf("%w: question at index %d has no id", ErrInvalidBank, i)
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidBank, q.ID)
		}
		if q.Chapter < MinChapter || q.Chapter > MaxChapter {
			return nil, fmt.Errorf("%w: question %s chapter %d outside %d-%d", ErrInvalidBank, q.ID, q.Chapter, MinChapter, MaxChapter)
		}
		if q.Chapter < prevChapter {
			return nil, fmt.Errorf("%w: question %s goes back to chapter %d after chapter %d", ErrInvalidBank, q.ID, q.Chapter, prevChapter)
		}
		if _, ok := b.chapters[q.Chapter]; !ok {
			return nil, fmt.Errorf("%w: question %s uses chapter %d which has no metadata", ErrInvalidBank, q.ID, q.Chapter)
		}
		if q.Weight <= 0 {
			return nil, fmt.Errorf("%w: question %s weight must be positive, got %v", ErrInvalidBank, q.ID, q.Weight)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: question %s has no options", ErrInvalidBank, q.ID)
		}
		for oi, opt := range q.Options {
			for code := range opt.Scores {
				if !traits.Contains(code) {
					return nil, fmt.Errorf("%w: %q in question %s option %d", ErrUnknownTraitCode, code, q.ID, oi)
				}
			}
		}

		if i == 0 || q.Chapter != prevChapter {
			b.order = append(b.order, q.Chapter)
		}
		prevChapter = q.Chapter
		b.byID[q.ID] = i
	}

	return b, nil
}

var (
	defaultBankOnce sync.Once
	defaultBank     *QuestionBank
)

// DefaultQuestionBank returns the embedded 85-question bank.
func DefaultQuestionBank() *QuestionBank {
	defaultBankOnce.Do(func() {
		b, err := LoadQuestionBank(defaultBankYAML, DefaultTraitCatalog())
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded question bank is invalid: %v", err))
		}
		defaultBank = b
	})
	return defaultBank
}

func (b *QuestionBank) Version() int {
	return b.version
}

func (b *QuestionBank) Len() int {
	return len(b.questions)
}

func (b *QuestionBank) GetQuestion(index int) (models.Question, error) {
	if index < 0 || index >= len(b.questions) {
		return models.Question{}, fmt.Errorf("%w: %d not in [0,%d)", ErrQuestionOutOfRange, index, len(b.questions))
	}
	return b.questions[index], nil
}

// Lookup finds a question by id.
func (b *QuestionBank) Lookup(id string) (models.Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return models.Question{}, false
	}
	return b.questions[i], true
}

// IndexOf reports the position of question id in the bank.
func (b *QuestionBank) IndexOf(id string) (int, bool) {
	i, ok := b.byID[id]
	return i, ok
}

func (b *QuestionBank) GetChapterMeta(chapter int) (models.Chapter, error) {
	ch, ok := b.chapters[chapter]
	if !ok {
		return models.Chapter{}, fmt.Errorf("%w: %d", ErrChapterNotFound, chapter)
	}
	return ch, nil
}

// Questions returns a copy of the question sequence.
func (b *QuestionBank) Questions() []models.Question {
	out := make([]models.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// Chapters returns chapter metadata in the order chapters appear in the bank.
func (b *QuestionBank) Chapters() []models.Chapter {
	out := make([]models.Chapter, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, b.chapters[n])
	}
	return out
}

// RestStationIndices returns the question indices that open a new chapter,
// excluding the first question of the bank.
func (b *QuestionBank) RestStationIndices() []int {
	var indices []int
	for i := 1; i < len(b.questions); i++ {
		if b.questions[i].Chapter != b.questions[i-1].Chapter {
			indices = append(indices, i)
		}
	}
	return indices
}

// IsRestStation reports whether index opens a new chapter.
func (b *QuestionBank) IsRestStation(index int) bool {
	if index <= 0 || index >= len(b.questions) {
		return false
	}
	return b.questions[index].Chapter != b.questions[index-1].Chapter
}
