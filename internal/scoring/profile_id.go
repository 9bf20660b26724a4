package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

const (
	profilePrefix   = "P"
	profileSep      = "_"
	highIndexDigits = 3
	lowIndexDigits  = 2
	scoreDigits     = 2
	maxScore        = 100
)

// ProfileCode is the decoded form of a profile id.
type ProfileCode struct {
	Highs      [highCount]string `json:"highs"`
	Lows       [lowCount]string  `json:"lows"`
	HighScores [highCount]int    `json:"high_scores"`
}

// FormatProfileID builds the profile fingerprint from ranked scores:
//
//	P{iii}{iii}{iii}_{ii}{ii}_{ss}{ss}{ss}
//
// The first group holds the catalog positions of the three highs, the second
// those of the two lows, the third the normalized scores of the three highs.
// A score of 100 is written as "100".
func FormatProfileID(ranked []models.TraitScore, traits *catalog.TraitCatalog) (string, error) {
	if len(ranked) < highCount+lowCount {
		return "", fmt.Errorf("%w: have %d scores, need %d", ErrTooFewTraits, len(ranked), highCount+lowCount)
	}

	var b strings.Builder
	b.WriteString(profilePrefix)

	for _, ts := range ranked[:highCount] {
		idx, ok := traits.IndexOf(ts.Code)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownTraitCode, ts.Code)
		}
		fmt.Fprintf(&b, "%0*d", highIndexDigits, idx)
	}

	b.WriteString(profileSep)
	for _, ts := range ranked[len(ranked)-lowCount:] {
		idx, ok := traits.IndexOf(ts.Code)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownTraitCode, ts.Code)
		}
		fmt.Fprintf(&b, "%0*d", lowIndexDigits, idx)
	}

	b.WriteString(profileSep)
	for _, ts := range ranked[:highCount] {
		fmt.Fprintf(&b, "%0*d", scoreDigits, ts.Normalized)
	}

	return b.String(), nil
}

// ParseProfileID decodes a profile id produced by FormatProfileID. Scores
// are non-increasing, so any 3-digit "100" groups lead the score section and
// the section length tells how many there are.
func ParseProfileID(id string, traits *catalog.TraitCatalog) (*ProfileCode, error) {
	if !strings.HasPrefix(id, profilePrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrMalformedProfileID, profilePrefix)
	}
	parts := strings.Split(strings.TrimPrefix(id, profilePrefix), profileSep)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 sections, got %d", ErrMalformedProfileID, len(parts))
	}

	highs, err := splitDigits(parts[0], highCount, highIndexDigits)
	if err != nil {
		return nil, fmt.Errorf("%w: highs: %v", ErrMalformedProfileID, err)
	}
	lows, err := splitDigits(parts[1], lowCount, lowIndexDigits)
	if err != nil {
		return nil, fmt.Errorf("%w: lows: %v", ErrMalformedProfileID, err)
	}
	scores, err := splitScores(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: scores: %v", ErrMalformedProfileID, err)
	}

	code := &ProfileCode{}
	seen := make(map[int]bool, highCount+lowCount)
	for i, idx := range append(highs, lows...) {
		if seen[idx] {
			return nil, fmt.Errorf("%w: trait position %d repeated", ErrMalformedProfileID, idx)
		}
		seen[idx] = true

		traitCode, ok := traits.CodeAt(idx)
		if !ok {
			return nil, fmt.Errorf("%w: trait position %d outside catalog", ErrMalformedProfileID, idx)
		}
		if i < highCount {
			code.Highs[i] = traitCode
		} else {
			code.Lows[i-highCount] = traitCode
		}
	}
	copy(code.HighScores[:], scores)

	return code, nil
}

func splitDigits(s string, count, width int) ([]int, error) {
	if len(s) != count*width || !allDigits(s) {
		return nil, fmt.Errorf("want %d digits, got %q", count*width, s)
	}
	out := make([]int, count)
	for i := range out {
		n, err := strconv.Atoi(s[i*width : (i+1)*width])
		if err != nil {
			return nil, fmt.Errorf("bad number in %q", s)
		}
		out[i] = n
	}
	return out, nil
}

func splitScores(s string) ([]int, error) {
	full := len(s) - highCount*scoreDigits
	if full < 0 || full > highCount || !allDigits(s) {
		return nil, fmt.Errorf("unexpected score section %q", s)
	}

	scores := make([]int, 0, highCount)
	rest := s
	for i := 0; i < highCount; i++ {
		width := scoreDigits
		if i < full {
			width = scoreDigits + 1
		}
		n, err := strconv.Atoi(rest[:width])
		if err != nil || n > maxScore || (width > scoreDigits && n != maxScore) {
			return nil, fmt.Errorf("bad score in %q", s)
		}
		if len(scores) > 0 && n > scores[len(scores)-1] {
			return nil, fmt.Errorf("scores must not increase: %q", s)
		}
		scores = append(scores, n)
		rest = rest[width:]
	}
	return scores, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
