package catalog

import (
	"testing"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllTraitCodes_FrozenOrder(t *testing.T) {
	expected := []string{"ATH", "APH", "HER", "ODI", "PRO", "ZEU", "HOR", "LOK", "ISI", "HEP", "AMA", "FRE"}
	assert.Equal(t, expected, AllTraitCodes())
	assert.Equal(t, 1, CatalogVersion)

	codes := AllTraitCodes()
	codes[0] = "XXX"
	assert.Equal(t, "ATH", AllTraitCodes()[0], "callers must not be able to mutate the catalog")
}

func TestGetTrait(t *testing.T) {
	trait, err := GetTrait("ODI")
	require.NoError(t, err)
	assert.Equal(t, "Odin", trait.Title)
	assert.Equal(t, "#607D8B", trait.Color)

	_, err = GetTrait("ZZZ")
	assert.ErrorIs(t, err, ErrTraitNotFound)
}

func TestTraitCatalog_IndexOf(t *testing.T) {
	c := DefaultTraitCatalog()
	for i, code := range c.AllTraitCodes() {
		idx, ok := c.IndexOf(code)
		require.True(t, ok)
		assert.Equal(t, i, idx)

		back, ok := c.CodeAt(i)
		require.True(t, ok)
		assert.Equal(t, code, back)
	}

	_, ok := c.IndexOf("NOPE")
	assert.False(t, ok)
	_, ok = c.CodeAt(12)
	assert.False(t, ok)
}

func TestNewTraitCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		traits []models.Trait
	}{
		{"empty", nil},
		{"short code", []models.Trait{{Code: "AT"}}},
		{"duplicate", []models.Trait{{Code: "ATH"}, {Code: "ATH"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTraitCatalog(tt.traits)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestDefaultQuestionBank(t *testing.T) {
	bank := DefaultQuestionBank()
	require.Equal(t, 85, bank.Len())
	assert.Equal(t, 1, bank.Version())

	first, err := bank.GetQuestion(0)
	require.NoError(t, err)
	assert.Equal(t, "Q1", first.ID)
	assert.Equal(t, 1, first.Chapter)
	assert.Equal(t, 0.8, first.Weight)
	assert.Equal(t, models.QuestionPoetic, first.Type)
	require.Len(t, first.Options, 4)
	assert.Equal(t, map[string]int{"ATH": 5, "HER": 2}, first.Options[0].Scores)

	last, err := bank.GetQuestion(84)
	require.NoError(t, err)
	assert.Equal(t, "Q85", last.ID)
	assert.Equal(t, 5, last.Chapter)
	assert.Equal(t, 2.0, last.Weight)

	q84, ok := bank.Lookup("Q84")
	require.True(t, ok)
	assert.Equal(t, -1, q84.Options[0].Scores["APH"])
}

func TestQuestionBank_GetQuestionOutOfRange(t *testing.T) {
	bank := DefaultQuestionBank()
	for _, idx := range []int{-1, 85, 1000} {
		_, err := bank.GetQuestion(idx)
		assert.ErrorIs(t, err, ErrQuestionOutOfRange, "index %d", idx)
	}
}

func TestQuestionBank_ChaptersAreContiguous(t *testing.T) {
	bank := DefaultQuestionBank()
	prev := 0
	for _, q := range bank.Questions() {
		assert.GreaterOrEqual(t, q.Chapter, prev, "question %s", q.ID)
		prev = q.Chapter
	}

	assert.Equal(t, []int{20, 40, 60, 75}, bank.RestStationIndices())
	assert.True(t, bank.IsRestStation(20))
	assert.False(t, bank.IsRestStation(0))
	assert.False(t, bank.IsRestStation(21))

	chapters := bank.Chapters()
	require.Len(t, chapters, 5)
	for i, ch := range chapters {
		assert.Equal(t, i+1, ch.Number)
	}
}

func TestQuestionBank_GetChapterMeta(t *testing.T) {
	bank := DefaultQuestionBank()
	ch, err := bank.GetChapterMeta(4)
	require.NoError(t, err)
	assert.Equal(t, "陰影之地", ch.Title)
	assert.Equal(t, "壓抑面向", ch.Subtitle)
	assert.NotEmpty(t, ch.RestStation)

	_, err = bank.GetChapterMeta(6)
	assert.ErrorIs(t, err, ErrChapterNotFound)
}

func TestNewQuestionBank_Validation(t *testing.T) {
	traits := DefaultTraitCatalog()
	chapters := []models.Chapter{{Number: 1, Title: "one"}, {Number: 2, Title: "two"}}
	opt := []models.QuestionOption{{Text: "a", Scores: map[string]int{"ATH": 1}}}

	tests := []struct {
		name      string
		questions []models.Question
		chapters  []models.Chapter
		wantErr   error
	}{
		{
			name:     "no questions",
			chapters: chapters,
			wantErr:  ErrInvalidBank,
		},
		{
			name: "duplicate id",
			questions: []models.Question{
				{ID: "A", Chapter: 1, Weight: 1, Options: opt},
				{ID: "A", Chapter: 1, Weight: 1, Options: opt},
			},
			chapters: chapters,
			wantErr:  ErrInvalidBank,
		},
		{
			name:      "chapter out of range",
			questions: []models.Question{{ID: "A", Chapter: 6, Weight: 1, Options: opt}},
			chapters:  chapters,
			wantErr:   ErrInvalidBank,
		},
		{
			name: "interleaved chapters",
			questions: []models.Question{
				{ID: "A", Chapter: 2, Weight: 1, Options: opt},
				{ID: "B", Chapter: 1, Weight: 1, Options: opt},
			},
			chapters: chapters,
			wantErr:  ErrInvalidBank,
		},
		{
			name:      "missing chapter metadata",
			questions: []models.Question{{ID: "A", Chapter: 3, Weight: 1, Options: opt}},
			chapters:  chapters,
			wantErr:   ErrInvalidBank,
		},
		{
			name:      "zero weight",
			questions: []models.Question{{ID: "A", Chapter: 1, Weight: 0, Options: opt}},
			chapters:  chapters,
			wantErr:   ErrInvalidBank,
		},
		{
			name:      "no options",
			questions: []models.Question{{ID: "A", Chapter: 1, Weight: 1}},
			chapters:  chapters,
			wantErr:   ErrInvalidBank,
		},
		{
			name: "unknown trait code",
			questions: []models.Question{{ID: "A", Chapter: 1, Weight: 1, Options: []models.QuestionOption{
				{Text: "a", Scores: map[string]int{"XYZ": 3}},
			}}},
			chapters: chapters,
			wantErr:  ErrUnknownTraitCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionBank(tt.questions, tt.chapters, traits)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewQuestionBank_VariableOptionCounts(t *testing.T) {
	bank, err := NewQuestionBank([]models.Question{
		{ID: "A", Chapter: 1, Weight: 1, Options: []models.QuestionOption{{Text: "only"}}},
		{ID: "B", Chapter: 2, Weight: 1.5, Options: []models.QuestionOption{{Text: "x"}, {Text: "y"}, {Text: "z"}, {Text: "w"}, {Text: "v"}}},
	}, []models.Chapter{{Number: 1, Title: "one"}, {Number: 2, Title: "two"}}, DefaultTraitCatalog())
	require.NoError(t, err)

	b, ok := bank.Lookup("B")
	require.True(t, ok)
	assert.Len(t, b.Options, 5)
	assert.Equal(t, []int{1}, bank.RestStationIndices())
}

func TestLoadQuestionBank_BadYAML(t *testing.T) {
	_, err := LoadQuestionBank([]byte("questions: [\n"), DefaultTraitCatalog())
	assert.ErrorIs(t, err, ErrInvalidBank)
}
