// Package scoring reduces quiz answers to a spirit profile.
//
// Scoring is a pure computation over immutable catalog data: it performs no
// I/O and keeps no state between calls, so one Engine may serve any number
// of goroutines.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

const (
	highCount = 3
	lowCount  = 2

	// degenerateScore is assigned to every trait when all raw scores are equal.
	degenerateScore = 50
)

// QuestionSource resolves question ids. *catalog.QuestionBank satisfies it.
type QuestionSource interface {
	Lookup(id string) (models.Question, bool)
}

type Engine struct {
	traits *catalog.TraitCatalog
	bank   QuestionSource
	now    func() time.Time
}

type Option func(*Engine)

// WithClock overrides the source of GeneratedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(traits *catalog.TraitCatalog, bank QuestionSource, opts ...Option) *Engine {
	e := &Engine{
		traits: traits,
		bank:   bank,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultEngine scores against the built-in catalog and question bank.
func NewDefaultEngine(opts ...Option) *Engine {
	return NewEngine(catalog.DefaultTraitCatalog(), catalog.DefaultQuestionBank(), opts...)
}

func (e *Engine) Traits() *catalog.TraitCatalog {
	return e.traits
}

// Calculate scores answers, stamping the profile with the engine clock.
func (e *Engine) Calculate(answers []models.Answer) (*models.SpiritProfile, error) {
	return Calculate(answers, e.bank, e.traits, e.now())
}

// Calculate reduces answers to a spirit profile.
//
// Every answer must reference a known question and a valid option index and
// carry a non-negative response time; the first violation aborts with an
// *AnswerError wrapping ErrInvalidAnswer. When a question is answered more
// than once only its last answer in input order is scored.
func Calculate(answers []models.Answer, bank QuestionSource, traits *catalog.TraitCatalog, now time.Time) (*models.SpiritProfile, error) {
	if traits.Len() < highCount+lowCount {
		return nil, fmt.Errorf("%w: have %d traits, need %d", ErrTooFewTraits, traits.Len(), highCount+lowCount)
	}

	questions, err := resolveAnswers(answers, bank)
	if err != nil {
		return nil, err
	}

	raw, err := accumulate(answers, questions, traits)
	if err != nil {
		return nil, err
	}

	ranked := rank(raw, normalize(raw), traits)

	id, err := FormatProfileID(ranked, traits)
	if err != nil {
		return nil, err
	}

	n := len(ranked)
	middle := make([]models.TraitScore, n-highCount-lowCount)
	copy(middle, ranked[highCount:n-lowCount])

	return &models.SpiritProfile{
		ID: id,
		ThreeHighs: models.ThreeHighs{
			Primary:   ranked[0],
			Secondary: ranked[1],
			Tertiary:  ranked[2],
		},
		TwoLows: models.TwoLows{
			MainShadow:   ranked[n-2],
			SecondShadow: ranked[n-1],
		},
		MiddleGods:  middle,
		GeneratedAt: now,
	}, nil
}

// resolveAnswers validates every answer, superseded ones included, and
// returns the question each answer refers to.
func resolveAnswers(answers []models.Answer, bank QuestionSource) ([]models.Question, error) {
	questions := make([]models.Question, len(answers))
	for i, a := range answers {
		q, ok := bank.Lookup(a.QuestionID)
		if !ok {
			return nil, &AnswerError{Position: i, QuestionID: a.QuestionID, Option: a.SelectedOption, Reason: "unknown question"}
		}
		if a.SelectedOption < 0 || a.SelectedOption >= len(q.Options) {
			return nil, &AnswerError{
				Position:   i,
				QuestionID: a.QuestionID,
				Option:     a.SelectedOption,
				Reason:     fmt.Sprintf("option out of range, question has %d options", len(q.Options)),
			}
		}
		if a.ResponseTimeMs < 0 {
			return nil, &AnswerError{Position: i, QuestionID: a.QuestionID, Option: a.SelectedOption, Reason: "negative response time"}
		}
		questions[i] = q
	}
	return questions, nil
}

// accumulate sums weighted deltas per trait, indexed by catalog position.
func accumulate(answers []models.Answer, questions []models.Question, traits *catalog.TraitCatalog) ([]float64, error) {
	last := make(map[string]int, len(answers))
	for i, a := range answers {
		last[a.QuestionID] = i
	}

	raw := make([]float64, traits.Len())
	for i, a := range answers {
		if last[a.QuestionID] != i {
			continue
		}
		q := questions[i]
		weight := CompositeWeight(q, a)
		for code, delta := range q.Options[a.SelectedOption].Scores {
			idx, ok := traits.IndexOf(code)
			if !ok {
				return nil, fmt.Errorf("%w: %q in question %s option %d", ErrUnknownTraitCode, code, q.ID, a.SelectedOption)
			}
			raw[idx] += float64(delta) * weight
		}
	}
	return raw, nil
}

// normalize maps raw scores onto 0-100, rounding half away from zero.
func normalize(raw []float64) []int {
	normalized := make([]int, len(raw))

	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi == lo {
		for i := range normalized {
			normalized[i] = degenerateScore
		}
		return normalized
	}

	span := hi - lo
	for i, v := range raw {
		normalized[i] = int(math.Round((v - lo) / span * 100))
	}
	return normalized
}

// rank orders traits by normalized score, highest first. Equal scores keep
// catalog order.
func rank(raw []float64, normalized []int, traits *catalog.TraitCatalog) []models.TraitScore {
	scores := make([]models.TraitScore, len(raw))
	for i, code := range traits.AllTraitCodes() {
		scores[i] = models.TraitScore{
			Code:       code,
			Score:      raw[i],
			Normalized: normalized[i],
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Normalized > scores[j].Normalized
	})
	return scores
}
