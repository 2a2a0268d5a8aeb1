package catalog

import (
	"testing"

	"mbti-quiz-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogTiersAreNestedPrefixes(t *testing.T) {
	cat := Default()
	require.Len(t, cat.Statements, 93)

	tiers := NewTiers(DefaultTiers())
	previous := []domain.Statement{}
	for _, tier := range []domain.Tier{domain.TierBasic, domain.TierStandard, domain.TierProfessional} {
		spec, err := tiers.Lookup(tier)
		require.NoError(t, err)

		statements := ForTier(cat, spec)
		assert.Len(t, statements, spec.CatalogSize)
		assert.Equal(t, previous, statements[:len(previous)], "tier %s must extend the smaller tier", tier)
		previous = statements
	}
}

func TestBasicTierHasFivePerDimension(t *testing.T) {
	spec, err := NewTiers(DefaultTiers()).Lookup(domain.TierBasic)
	require.NoError(t, err)

	counts := map[domain.Dimension]int{}
	for _, s := range ForTier(Default(), spec) {
		counts[s.Dimension]++
	}
	for _, d := range domain.Dimensions {
		assert.Equal(t, 5, counts[d], d.Code())
	}
}

func TestLookupUnknownTier(t *testing.T) {
	_, err := NewTiers(DefaultTiers()).Lookup("easy")
	assert.ErrorIs(t, err, domain.ErrUnknownTier)
}

func TestParseRejectsBadStatements(t *testing.T) {
	cases := map[string]string{
		"zero polarity": "statements:\n  - {id: 1, dimension: EI, polarity: 0, text: a}\n",
		"missing text":  "statements:\n  - {id: 1, dimension: EI, polarity: 1}\n",
		"duplicate id":  "statements:\n  - {id: 1, dimension: EI, polarity: 1, text: a}\n  - {id: 1, dimension: SN, polarity: 1, text: b}\n",
		"bad dimension": "statements:\n  - {id: 1, dimension: XX, polarity: 1, text: a}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseSortsByID(t *testing.T) {
	cat, err := Parse([]byte("name: x\nstatements:\n  - {id: 3, dimension: EI, polarity: 1, text: c}\n  - {id: 1, dimension: JP, polarity: -1, text: a}\n"))
	require.NoError(t, err)
	require.Len(t, cat.Statements, 2)
	assert.Equal(t, 1, cat.Statements[0].ID)
	assert.Equal(t, domain.Structure, cat.Statements[0].Dimension)
}
