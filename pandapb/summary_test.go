package pandapb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bio-tools/pandaseq/assemble"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	s := FromCounters(assemble.Counters{Count: 10, OK: 7, LowQuality: 2, NoAlignment: 1})
	data, err := Marshal(s)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.GetTotal())
	assert.Equal(t, int64(7), got.GetOk())
	assert.Equal(t, int64(2), got.GetLowQuality())
	assert.Equal(t, int64(1), got.GetNoAlignment())
}

func TestMergeSumsCounters(t *testing.T) {
	a := FromCounters(assemble.Counters{Count: 5, OK: 3})
	b := FromCounters(assemble.Counters{Count: 7, OK: 4})
	a.Merge(b)
	assert.Equal(t, int64(12), a.GetTotal())
	assert.Equal(t, int64(7), a.GetOk())
}

func TestGettersHandleNil(t *testing.T) {
	var s *Summary
	assert.Equal(t, int64(0), s.GetTotal())
}
