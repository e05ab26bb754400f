package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSatInteger(t *testing.T) {
	sat, err := ParseSat("0")
	require.NoError(t, err)
	assert.Equal(t, Sat(0), sat)

	sat, err = ParseSat("2099999997689999")
	require.NoError(t, err)
	assert.Equal(t, LastSat, sat)

	_, err = ParseSat("2099999997690000")
	assert.Equal(t, ErrInvalidSat, err)

	_, err = ParseSat("-1")
	assert.Error(t, err)

	_, err = ParseSat("")
	assert.Error(t, err)
}

func TestParseSatDecimal(t *testing.T) {
	sat, err := ParseSat("0.0")
	require.NoError(t, err)
	assert.Equal(t, Sat(0), sat)

	sat, err = ParseSat("1.0")
	require.NoError(t, err)
	assert.Equal(t, Sat(50*COIN_VALUE), sat)

	sat, err = ParseSat("1.1")
	require.NoError(t, err)
	assert.Equal(t, Sat(50*COIN_VALUE+1), sat)

	// offset must stay below the block subsidy
	_, err = ParseSat("0.5000000000")
	assert.Error(t, err)
}

func TestParseSatDegree(t *testing.T) {
	sat, err := ParseSat("0°0′0″0‴")
	require.NoError(t, err)
	assert.Equal(t, Sat(0), sat)

	sat, err = ParseSat("0°0′0″1‴")
	require.NoError(t, err)
	assert.Equal(t, Sat(1), sat)

	sat, err = ParseSat("0°1′1″0‴")
	require.NoError(t, err)
	assert.Equal(t, Sat(50*COIN_VALUE), sat)

	_, err = ParseSat("0°0′0″")
	assert.Error(t, err)

	// unreachable epoch/period combination
	_, err = ParseSat("0°1′0″0‴")
	assert.Error(t, err)
}

func TestParseSatName(t *testing.T) {
	sat, err := ParseSat("a")
	require.NoError(t, err)
	assert.Equal(t, LastSat, sat)

	sat, err = ParseSat("nvtdijuwxlp")
	require.NoError(t, err)
	assert.Equal(t, Sat(0), sat)

	_, err = ParseSat("nvtdijuwxlq")
	assert.Equal(t, ErrInvalidSat, err)

	_, err = ParseSat("abc1")
	assert.Error(t, err)
}

func TestSatEncodingsAgree(t *testing.T) {
	for _, n := range []int64{0, 1, 50*COIN_VALUE - 1, 50 * COIN_VALUE, 1232735286933201, int64(LastSat)} {
		sat := Sat(n)

		got, err := ParseSat(sat.String())
		require.NoError(t, err)
		assert.Equal(t, sat, got, "integer encoding of %d", n)

		got, err = ParseSat(sat.Decimal())
		require.NoError(t, err)
		assert.Equal(t, sat, got, "decimal encoding of %d", n)

		got, err = ParseSat(sat.Degree())
		require.NoError(t, err)
		assert.Equal(t, sat, got, "degree encoding of %d", n)

		got, err = ParseSat(sat.Name())
		require.NoError(t, err)
		assert.Equal(t, sat, got, "name encoding of %d", n)
	}
}

func TestSatDerivedFields(t *testing.T) {
	sat := Sat(50 * COIN_VALUE)
	assert.Equal(t, Height(1), sat.Height())
	assert.Equal(t, int64(0), sat.Third())
	assert.Equal(t, "1.0", sat.Decimal())
	assert.Equal(t, "0°1′1″0‴", sat.Degree())

	last := LastSat
	assert.Equal(t, "a", last.Name())
	assert.Equal(t, Epoch(32), last.Epoch())
}

func TestSatRarity(t *testing.T) {
	assert.Equal(t, RarityMythic, Sat(0).Rarity())
	assert.Equal(t, RarityCommon, Sat(1).Rarity())
	assert.Equal(t, RarityUncommon, Height(1).StartingSat().Rarity())
	assert.Equal(t, RarityRare, Height(DIFFCHANGE_INTERVAL).StartingSat().Rarity())
	assert.Equal(t, RarityEpic, Height(SUBSIDY_HALVING_INTERVAL).StartingSat().Rarity())
	assert.Equal(t, RarityLegendary, Height(CYCLE_INTERVAL).StartingSat().Rarity())
}

func TestEpochBoundaries(t *testing.T) {
	assert.Equal(t, Sat(0), Epoch(0).StartingSat())
	assert.Equal(t, Sat(1050000000000000), Epoch(1).StartingSat())
	assert.Equal(t, int64(50*COIN_VALUE), Epoch(0).Subsidy())
	assert.Equal(t, int64(25*COIN_VALUE), Epoch(1).Subsidy())
	assert.Equal(t, int64(0), Epoch(FIRST_POST_SUBSIDY_EPOCH).Subsidy())

	// total supply is the first sat of the post-subsidy epoch
	assert.Equal(t, Sat(SupplySats), Epoch(FIRST_POST_SUBSIDY_EPOCH).StartingSat())
}
