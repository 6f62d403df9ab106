package fair_test

import (
	"testing"

	"github.com/fwojciec/schedq"
	"github.com/fwojciec/schedq/fair"
	"github.com/fwojciec/schedq/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloaderAware_picks_slot_with_fewest_in_flight(t *testing.T) {
	t.Parallel()

	inflight := map[string]int{"a": 0, "b": 0, "c": 1, "d": 2}
	tracker := &mock.Tracker{InFlightFn: func(slot string) int { return inflight[slot] }}

	q, err := fair.NewDownloaderAware(memPartitions(schedq.FIFO), tracker, nil)
	require.NoError(t, err)

	for _, slot := range []string{"a", "b", "c", "d"} {
		require.NoError(t, q.Push(&schedq.Request{URL: "http://" + slot + ".com/", Slot: slot}, 0))
	}

	// Counts 0,0,1,2: the next pop must come from a zero-count slot, and
	// the tie between a and b goes to a, the earliest in the rotation.
	r, err := q.Pop()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "a", r.Slot)
}

func TestDownloaderAware_untracked_slots_count_as_zero(t *testing.T) {
	t.Parallel()

	tracker := &mock.Tracker{InFlightFn: func(slot string) int {
		if slot == "a" {
			return 5
		}
		return 0
	}}

	q, err := fair.NewDownloaderAware(memPartitions(schedq.FIFO), tracker, nil)
	require.NoError(t, err)

	require.NoError(t, q.Push(&schedq.Request{URL: "http://a.com/", Slot: "a"}, 0))
	require.NoError(t, q.Push(&schedq.Request{URL: "http://b.com/", Slot: "b"}, 0))

	r, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, "b", r.Slot)
}

func TestDownloaderAware_reacts_to_changing_counts(t *testing.T) {
	t.Parallel()

	inflight := map[string]int{}
	tracker := &mock.Tracker{InFlightFn: func(slot string) int { return inflight[slot] }}

	q, err := fair.NewDownloaderAware(memPartitions(schedq.FIFO), tracker, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, q.Push(&schedq.Request{URL: "http://a.com/", Slot: "a"}, 0))
		require.NoError(t, q.Push(&schedq.Request{URL: "http://b.com/", Slot: "b"}, 0))
	}

	// Simulate the downstream consumer holding every dispatched request.
	var got []string
	for q.Len() > 0 {
		r, err := q.Pop()
		require.NoError(t, err)
		require.NotNil(t, r)
		inflight[r.Slot]++
		got = append(got, r.Slot)
	}

	// With counters rising as requests stay in flight, dispatch alternates.
	assert.Equal(t, []string{"a", "b", "a", "b"}, got)
}

func TestDownloaderAware_pop_on_empty_returns_nil(t *testing.T) {
	t.Parallel()

	tracker := &mock.Tracker{InFlightFn: func(string) int { return 0 }}
	q, err := fair.NewDownloaderAware(memPartitions(schedq.FIFO), tracker, nil)
	require.NoError(t, err)

	r, err := q.Pop()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestNewDownloaderAware_requires_tracker(t *testing.T) {
	t.Parallel()

	_, err := fair.NewDownloaderAware(memPartitions(schedq.FIFO), nil, nil)
	require.Error(t, err)
	assert.Equal(t, schedq.EINVALID, schedq.ErrorCode(err))
}

func TestDownloaderAware_pop_returns_entry_when_level_close_fails(t *testing.T) {
	t.Parallel()

	tracker := &mock.Tracker{InFlightFn: func(string) int { return 0 }}
	factory := func(slot string, levels []int) (*fair.Partition, error) {
		return fair.NewPartition(brokenCloseFactory(schedq.FIFO), levels)
	}
	q, err := fair.NewDownloaderAware(factory, tracker, nil)
	require.NoError(t, err)

	require.NoError(t, q.Push(&schedq.Request{URL: "http://a.com/1", Slot: "a"}, 0))

	r, err := q.Pop()
	require.Error(t, err)
	assert.Equal(t, schedq.ESTORAGE, schedq.ErrorCode(err))
	require.NotNil(t, r, "popped request must be returned even when level close fails")
	assert.Equal(t, "http://a.com/1", r.URL)
}

func TestDownloaderAware_close_returns_snapshot(t *testing.T) {
	t.Parallel()

	tracker := &mock.Tracker{InFlightFn: func(string) int { return 0 }}
	q, err := fair.NewDownloaderAware(memPartitions(schedq.FIFO), tracker, nil)
	require.NoError(t, err)

	require.NoError(t, q.Push(&schedq.Request{URL: "http://a.com/", Slot: "a", Priority: 1}, 1))

	snap, err := q.Close()
	require.NoError(t, err)
	assert.Equal(t, schedq.Snapshot{"a": {1}}, snap)
}
