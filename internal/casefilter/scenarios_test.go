package casefilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildIndex is a test helper: inserts each keyword and finalizes.
func buildIndex(t *testing.T, keywords []string) *Index {
	t.Helper()
	idx := New()
	for _, kw := range keywords {
		require.NoError(t, idx.Insert([]byte(kw)))
	}
	require.NoError(t, idx.Finalize())
	return idx
}

// TestLiteralScenarios exercises the six end-to-end scenarios from the
// acceptance table: given keywords, a query, and a threshold k, Search must
// return the documented boolean.
func TestLiteralScenarios(t *testing.T) {
	cases := []struct {
		name     string
		keywords []string
		query    string
		k        int
		want     bool
	}{
		{
			name:     "S1_exact_match",
			keywords: []string{"ABCDEFGHIJABCDE"},
			query:    "ABCDEFGHIJABCDE",
			k:        0,
			want:     true,
		},
		{
			name:     "S2_two_substitutions",
			keywords: []string{"AAAAAAAAAAAAAAA"},
			query:    "AAAAAAAAAAAAABB",
			k:        3,
			want:     true,
		},
		{
			name:     "S3_three_substitutions_tail",
			keywords: []string{"AAAAAAAAAAAAAAA"},
			query:    "AAAAAAAAAAAABBB",
			k:        3,
			want:     true,
		},
		{
			name:     "S4_four_substitutions_exceeds_k",
			keywords: []string{"AAAAAAAAAAAAAAA"},
			query:    "AAAAAAAAAAABBBB",
			k:        3,
			want:     false,
		},
		{
			name:     "S5_one_deletion_one_insertion",
			keywords: []string{"BCDEFGHIJABCDEF"},
			query:    "ABCDEFGHIJABCDE",
			k:        3,
			want:     true,
		},
		{
			name:     "S6_two_substitutions_among_two_keywords",
			keywords: []string{"ABCDEFGHIJABCDE", "JJJJJJJJJJJJJJJ"},
			query:    "ABCDEFGHIJABCJJ",
			k:        2,
			want:     true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx := buildIndex(t, tc.keywords)
			s := NewSearcher(idx)
			got := s.Search([]byte(tc.query), tc.k)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEmptyIndexAlwaysReturnsFalse(t *testing.T) {
	idx := buildIndex(t, nil)
	s := NewSearcher(idx)
	for k := 0; k <= 3; k++ {
		require.False(t, s.Search([]byte("AAAAAAAAAAAAAAA"), k))
	}
}

func TestSingleKeywordIdenticalMatchesAtKZero(t *testing.T) {
	idx := buildIndex(t, []string{"CDEFGHIJABCDEFG"})
	s := NewSearcher(idx)
	require.True(t, s.Search([]byte("CDEFGHIJABCDEFG"), 0))
}

func TestWrongLengthQueryReturnsFalse(t *testing.T) {
	idx := buildIndex(t, []string{"AAAAAAAAAAAAAAA"})
	s := NewSearcher(idx)
	require.False(t, s.Search([]byte("TOOSHORT"), 3))
	require.False(t, s.Search([]byte("AAAAAAAAAAAAAAAAAAAAA"), 3))
}

func TestIdempotentSearch(t *testing.T) {
	idx := buildIndex(t, []string{"ABCDEFGHIJABCDE"})
	s := NewSearcher(idx)
	first := s.Search([]byte("ABCDEFGHIJABCDE"), 1)
	second := s.Search([]byte("ABCDEFGHIJABCDE"), 1)
	require.Equal(t, first, second)
	require.True(t, second)
}
