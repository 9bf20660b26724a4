package scoring

import (
	"testing"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileID(t *testing.T) {
	traits := catalog.DefaultTraitCatalog()

	tests := []struct {
		id     string
		highs  [3]string
		lows   [2]string
		scores [3]int
	}{
		{"P000003005_0407_1004519", [3]string{"ATH", "ODI", "ZEU"}, [2]string{"PRO", "LOK"}, [3]int{100, 45, 19}},
		{"P007008003_0106_1006146", [3]string{"LOK", "ISI", "ODI"}, [2]string{"APH", "HOR"}, [3]int{100, 61, 46}},
		{"P000001002_1011_505050", [3]string{"ATH", "APH", "HER"}, [2]string{"AMA", "FRE"}, [3]int{50, 50, 50}},
		{"P000001002_1011_100100100", [3]string{"ATH", "APH", "HER"}, [2]string{"AMA", "FRE"}, [3]int{100, 100, 100}},
		{"P011010009_0001_10010005", [3]string{"FRE", "AMA", "HEP"}, [2]string{"ATH", "APH"}, [3]int{100, 100, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			code, err := ParseProfileID(tt.id, traits)
			require.NoError(t, err)
			assert.Equal(t, tt.highs, code.Highs)
			assert.Equal(t, tt.lows, code.Lows)
			assert.Equal(t, tt.scores, code.HighScores)
		})
	}
}

func TestParseProfileID_Malformed(t *testing.T) {
	traits := catalog.DefaultTraitCatalog()

	for _, id := range []string{
		"",
		"X000001002_1011_505050",
		"P000001002_1011",
		"P000001002_1011_505050_01",
		"P00001002_1011_505050",
		"P000001002_101_505050",
		"P000001002_1011_5050",
		"P000001002_1011_50505050",
		"P000001002_1011_405060",
		"P000001002_1011_101100",
		"P000000002_1011_505050",
		"P000001002_0111_505050",
		"P000001012_1011_505050",
		"P000001002_1012_505050",
		"P+00001002_1011_505050",
		"P000001002_1011_50-150",
		"P000001002_1011_200100100",
	} {
		t.Run(id, func(t *testing.T) {
			_, err := ParseProfileID(id, traits)
			assert.ErrorIs(t, err, ErrMalformedProfileID)
		})
	}
}

func TestFormatProfileID(t *testing.T) {
	traits := catalog.DefaultTraitCatalog()
	ranked := make([]models.TraitScore, 0, traits.Len())
	for i, code := range traits.AllTraitCodes() {
		ranked = append(ranked, models.TraitScore{Code: code, Normalized: 100 - i*9})
	}

	id, err := FormatProfileID(ranked, traits)
	require.NoError(t, err)
	assert.Equal(t, "P000001002_1011_1009182", id)

	_, err = FormatProfileID(ranked[:4], traits)
	assert.ErrorIs(t, err, ErrTooFewTraits)

	ranked[0].Code = "XYZ"
	_, err = FormatProfileID(ranked, traits)
	assert.ErrorIs(t, err, ErrUnknownTraitCode)
}
