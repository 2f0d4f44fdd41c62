package pricing

import (
	"sort"
	"testing"

	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog()

	deu, err := c.Lookup(DEU)
	require.NoError(t, err)
	assert.Equal(t, "Germany", deu.Name)
	assert.True(t, deu.IsEU)
	assert.InDelta(t, 0.07, f(deu.VATRate), 1e-9)

	_, err = c.Lookup("ATL")
	assert.ErrorIs(t, err, shared.ErrUnknownCountry)
}

func TestCatalog_AllSortedByCode(t *testing.T) {
	c := NewCatalog()
	all := c.All()

	require.Len(t, all, 26)
	assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool {
		return all[i].Code < all[j].Code
	}))
}

func TestCatalog_Update(t *testing.T) {
	c := NewCatalog()

	t.Run("replaces existing profile", func(t *testing.T) {
		p, err := c.Lookup(JPN)
		require.NoError(t, err)
		p.VATRate = decimal.NewFromFloat(0.08)
		require.NoError(t, c.Update(p))

		got, err := c.Lookup(JPN)
		require.NoError(t, err)
		assert.InDelta(t, 0.08, f(got.VATRate), 1e-9)
	})

	t.Run("lookup results are copies", func(t *testing.T) {
		before, err := c.Lookup(USA)
		require.NoError(t, err)

		modified := before
		modified.VATRate = decimal.NewFromFloat(0.5)
		require.NoError(t, c.Update(modified))

		assert.True(t, before.VATRate.IsZero())
	})

	t.Run("rejects missing code or name", func(t *testing.T) {
		err := c.Update(CountryProfile{Name: "Nowhere"})
		assert.Error(t, err)
	})

	t.Run("rejects negative rates", func(t *testing.T) {
		err := c.Update(CountryProfile{
			Code: "MEX", Name: "Mexico",
			VATRate: decimal.NewFromFloat(-0.1),
		})
		assert.Error(t, err)
	})

	t.Run("adds new destination", func(t *testing.T) {
		require.NoError(t, c.Update(CountryProfile{
			Code: "MEX", Name: "Mexico",
			VATRate: decimal.NewFromFloat(0.16), Timezone: "America/Mexico_City",
		}))
		assert.True(t, c.Has("MEX"))
		assert.Equal(t, 27, c.Len())
	})
}

func TestCountryProfile_TaxRate(t *testing.T) {
	c := NewCatalog()
	bra, err := c.Lookup(BRA)
	require.NoError(t, err)
	assert.InDelta(t, 0.77, f(bra.TaxRate()), 1e-9)
}
