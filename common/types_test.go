package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
	testTxid = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
)

func TestParseBlockQuery(t *testing.T) {
	// exactly 64 characters means hash, everything else is a height
	q, err := ParseBlockQuery(testHash)
	require.NoError(t, err)
	require.NotNil(t, q.Hash)
	assert.Equal(t, testHash, q.Hash.String())

	q, err = ParseBlockQuery("0")
	require.NoError(t, err)
	assert.Nil(t, q.Hash)
	assert.Equal(t, Height(0), q.Height)

	q, err = ParseBlockQuery("840000")
	require.NoError(t, err)
	assert.Equal(t, Height(840000), q.Height)

	_, err = ParseBlockQuery(strings.Repeat("z", 64))
	assert.Error(t, err)

	_, err = ParseBlockQuery("-1")
	assert.Error(t, err)

	// 63 hex characters parse as a (failing) height, not a hash
	_, err = ParseBlockQuery(testHash[:63])
	assert.Error(t, err)
}

func TestParseOutPoint(t *testing.T) {
	op, err := ParseOutPoint(testTxid + ":1")
	require.NoError(t, err)
	assert.Equal(t, testTxid, op.Hash.String())
	assert.Equal(t, uint32(1), op.Index)

	_, err = ParseOutPoint(testTxid)
	assert.Error(t, err)

	_, err = ParseOutPoint(testTxid + ":x")
	assert.Error(t, err)

	_, err = ParseOutPoint("abc:1")
	assert.Error(t, err)
}

func TestParseSatPoint(t *testing.T) {
	sp, err := ParseSatPoint(testTxid + ":2:5000")
	require.NoError(t, err)
	assert.Equal(t, testTxid, sp.OutPoint.Hash.String())
	assert.Equal(t, uint32(2), sp.OutPoint.Index)
	assert.Equal(t, int64(5000), sp.Offset)
	assert.Equal(t, testTxid+":2:5000", sp.String())

	_, err = ParseSatPoint(testTxid + ":2")
	assert.Error(t, err)

	_, err = ParseSatPoint(testTxid + ":2:x")
	assert.Error(t, err)
}

func TestClassifySearchQuery(t *testing.T) {
	kind, q := ClassifySearchQuery(testHash)
	assert.Equal(t, SearchHash, kind)
	assert.Equal(t, testHash, q)

	kind, q = ClassifySearchQuery(" " + testHash + " ")
	assert.Equal(t, SearchHash, kind)
	assert.Equal(t, testHash, q)

	kind, q = ClassifySearchQuery(testTxid + ":3")
	assert.Equal(t, SearchOutPoint, kind)
	assert.Equal(t, testTxid+":3", q)

	kind, q = ClassifySearchQuery(" 0 ")
	assert.Equal(t, SearchSat, kind)
	assert.Equal(t, "0", q)

	kind, _ = ClassifySearchQuery("ahehcsqpqnmj")
	assert.Equal(t, SearchSat, kind)
}

func TestSatRange(t *testing.T) {
	r := &SatRange{Start: 10, End: 15}
	assert.Equal(t, int64(5), r.Size())
	assert.Equal(t, "10-15", r.String())
}
