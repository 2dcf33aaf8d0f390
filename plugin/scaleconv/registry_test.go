package scaleconv

import (
	"slices"
	"testing"

	"github.com/cwbudde/scaleconv/dsp/buffer"
	"github.com/cwbudde/scaleconv/dsp/linear"
	"github.com/cwbudde/scaleconv/internal/testutil"
)

func requireFilters(t *testing.T, r *Registry, id StreamID, n int, want linear.Equation) {
	t.Helper()

	fs, ok := r.FilterSet(id)
	if !ok {
		t.Fatalf("no filter set for stream %d", id)
	}
	if len(fs.Filters) != n {
		t.Fatalf("stream %d: len(Filters) = %d, want %d", id, len(fs.Filters), n)
	}
	for i, f := range fs.Filters {
		if f != want {
			t.Fatalf("stream %d channel %d: filter = %+v, want %+v", id, i, f, want)
		}
	}
}

func TestReconcileCreatesFromParams(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	stats := r.Reconcile([]Stream{testStream(7, 4, 2, 1)})

	if !slices.Equal(stats.Created, []StreamID{7}) {
		t.Fatalf("Created = %v, want [7]", stats.Created)
	}
	if len(stats.Rebuilt) != 0 || len(stats.Removed) != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	requireFilters(t, r, 7, 4, linear.Equation{Scaling: 2, Offset: 1})

	fs, _ := r.FilterSet(7)
	if fs.SampleRate != 30000 {
		t.Fatalf("SampleRate = %v, want 30000", fs.SampleRate)
	}
}

func TestReconcileLengthMatchesChannelCount(t *testing.T) {
	t.Parallel()

	for n := range 9 {
		r := NewRegistry()
		r.Reconcile([]Stream{testStream(1, n, 1, 0)})

		fs, ok := r.FilterSet(1)
		if !ok {
			t.Fatalf("n=%d: missing filter set", n)
		}
		if fs.NumChannels() != n {
			t.Fatalf("n=%d: NumChannels() = %d", n, fs.NumChannels())
		}
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	t.Parallel()

	live := []Stream{testStream(1, 4, 2, 1), testStream(2, 8, 0.5, -3)}

	r := NewRegistry()
	r.Reconcile(live)
	r.UpdateCoefficients(2, 3, 3)
	r.SetFilterParameters(2, 5, 9, 9)

	before := map[StreamID][]linear.Equation{}
	for _, id := range r.StreamIDs() {
		fs, _ := r.FilterSet(id)
		before[id] = slices.Clone(fs.Filters)
	}

	stats := r.Reconcile(live)
	if stats.Changed() {
		t.Fatalf("second Reconcile changed something: %+v", stats)
	}

	for id, want := range before {
		fs, _ := r.FilterSet(id)
		if !slices.Equal(fs.Filters, want) {
			t.Fatalf("stream %d: filters changed from %v to %v", id, want, fs.Filters)
		}
	}
}

func TestReconcileRemovesAbsentStreams(t *testing.T) {
	t.Parallel()

	a := testStream(1, 2, 1, 0)
	b := testStream(2, 3, 1, 0)

	r := NewRegistry()
	r.Reconcile([]Stream{a, b})

	stats := r.Reconcile([]Stream{a})
	if !slices.Equal(stats.Removed, []StreamID{2}) {
		t.Fatalf("Removed = %v, want [2]", stats.Removed)
	}
	if !slices.Equal(r.StreamIDs(), []StreamID{1}) {
		t.Fatalf("StreamIDs() = %v, want [1]", r.StreamIDs())
	}

	r.Reconcile(nil)
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after empty reconcile, want 0", r.Len())
	}
}

func TestReconcileChannelCountChangeResetsToIdentity(t *testing.T) {
	t.Parallel()

	s := testStream(3, 4, 2, 1)

	r := NewRegistry()
	r.Reconcile([]Stream{s})
	requireFilters(t, r, 3, 4, linear.Equation{Scaling: 2, Offset: 1})

	s.ChannelCount = 2
	stats := r.Reconcile([]Stream{s})
	if !slices.Equal(stats.Rebuilt, []StreamID{3}) {
		t.Fatalf("Rebuilt = %v, want [3]", stats.Rebuilt)
	}
	requireFilters(t, r, 3, 2, linear.Identity())

	r.UpdateCoefficients(3, 2, 1)
	requireFilters(t, r, 3, 2, linear.Equation{Scaling: 2, Offset: 1})
}

func TestReconcileRefreshesSampleRate(t *testing.T) {
	t.Parallel()

	s := testStream(1, 2, 1, 0)

	r := NewRegistry()
	r.Reconcile([]Stream{s})

	s.SampleRate = 2500
	if r.Reconcile([]Stream{s}).Changed() {
		t.Fatal("sample rate change should not rebuild")
	}

	fs, _ := r.FilterSet(1)
	if fs.SampleRate != 2500 {
		t.Fatalf("SampleRate = %v, want 2500", fs.SampleRate)
	}
}

func TestUpdateCoefficients(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Reconcile([]Stream{testStream(1, 3, 1, 0), testStream(2, 2, 5, 5)})

	if !r.UpdateCoefficients(1, -4, 0.25) {
		t.Fatal("UpdateCoefficients returned false for known stream")
	}

	requireFilters(t, r, 1, 3, linear.Equation{Scaling: -4, Offset: 0.25})
	requireFilters(t, r, 2, 2, linear.Equation{Scaling: 5, Offset: 5})
}

func TestUpdateCoefficientsUnknownStream(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Reconcile([]Stream{testStream(1, 2, 1, 0)})

	if r.UpdateCoefficients(99, 3, 3) {
		t.Fatal("UpdateCoefficients returned true for unknown stream")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	requireFilters(t, r, 1, 2, linear.Identity())
}

func TestSetFilterParameters(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Reconcile([]Stream{testStream(1, 3, 1, 0)})

	if !r.SetFilterParameters(1, 1, 10, 2) {
		t.Fatal("SetFilterParameters returned false")
	}

	fs, _ := r.FilterSet(1)
	want := []linear.Equation{linear.Identity(), {Scaling: 10, Offset: 2}, linear.Identity()}
	if !slices.Equal(fs.Filters, want) {
		t.Fatalf("Filters = %v, want %v", fs.Filters, want)
	}

	for _, ch := range []int{-1, 3} {
		if r.SetFilterParameters(1, ch, 0, 0) {
			t.Fatalf("channel %d accepted", ch)
		}
	}
	if r.SetFilterParameters(2, 0, 0, 0) {
		t.Fatal("unknown stream accepted")
	}
}

func TestApplyToBufferSelectedChannels(t *testing.T) {
	t.Parallel()

	s := testStream(1, 4, 2, 1)
	s.Params.Channels = NewChannelSet(0, 2)
	host := newFakeHost(1, s)

	r := NewRegistry()
	r.Reconcile(host.DataStreams())

	block := buffer.FromRows([][]float64{{1}, {1}, {1}, {1}})
	applied := r.ApplyToBuffer(s, 1, host, block.Channel)

	if applied != 2 {
		t.Fatalf("applied = %d, want 2", applied)
	}
	if want := []float64{3, 1, 3, 1}; !equalSlices(block.Samples(), want) {
		t.Fatalf("block = %v, want %v", block.Samples(), want)
	}
}

func TestApplyToBufferDisabledStreamUnchanged(t *testing.T) {
	t.Parallel()

	s := testStream(1, 2, 2, 1)
	s.Params.Enabled = false
	host := newFakeHost(4, s)

	r := NewRegistry()
	r.Reconcile(host.DataStreams())

	block := buffer.FromRows([][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}})
	want := block.Copy()

	if n := r.ApplyToBuffer(s, 4, host, block.Channel); n != 0 {
		t.Fatalf("applied = %d, want 0", n)
	}
	if !equalSlices(block.Samples(), want.Samples()) {
		t.Fatalf("disabled stream modified block: %v", block.Samples())
	}
}

func TestApplyToBufferUsesGlobalMapping(t *testing.T) {
	t.Parallel()

	a := testStream(1, 2, 1, 0)
	b := testStream(2, 2, 10, 0)
	host := newFakeHost(2, a, b)

	r := NewRegistry()
	r.Reconcile(host.DataStreams())

	block := buffer.New(host.totalChannels(), 2)
	for i := range block.Samples() {
		block.Samples()[i] = 1
	}

	r.ApplyToBuffer(b, 2, host, block.Channel)

	want := []float64{1, 1, 1, 1, 10, 10, 10, 10}
	if !equalSlices(block.Samples(), want) {
		t.Fatalf("block = %v, want %v", block.Samples(), want)
	}
}

func TestApplyToBufferSkipsOutOfRangeChannels(t *testing.T) {
	t.Parallel()

	s := testStream(1, 2, 3, 0)
	s.Params.Channels = NewChannelSet(1, 2, 5)
	host := newFakeHost(1, s, testStream(2, 4, 1, 0))

	r := NewRegistry()
	r.Reconcile(host.DataStreams())

	block := buffer.New(host.totalChannels(), 1)
	for i := range block.Samples() {
		block.Samples()[i] = 1
	}

	if n := r.ApplyToBuffer(s, 1, host, block.Channel); n != 1 {
		t.Fatalf("applied = %d, want 1", n)
	}

	want := []float64{1, 3, 1, 1, 1, 1}
	if !equalSlices(block.Samples(), want) {
		t.Fatalf("block = %v, want %v", block.Samples(), want)
	}
}

func TestApplyToBufferSampleCount(t *testing.T) {
	t.Parallel()

	s := testStream(1, 1, 2, 0)
	host := newFakeHost(0, s)

	r := NewRegistry()
	r.Reconcile(host.DataStreams())

	t.Run("partial block", func(t *testing.T) {
		t.Parallel()

		block := buffer.FromRows([][]float64{testutil.Ones(4)})
		r.ApplyToBuffer(s, 2, host, block.Channel)

		if want := []float64{2, 2, 1, 1}; !equalSlices(block.Samples(), want) {
			t.Fatalf("block = %v, want %v", block.Samples(), want)
		}
	})

	t.Run("count beyond row is clipped", func(t *testing.T) {
		t.Parallel()

		block := buffer.FromRows([][]float64{testutil.Ones(3)})
		r.ApplyToBuffer(s, 10, host, block.Channel)

		if want := []float64{2, 2, 2}; !equalSlices(block.Samples(), want) {
			t.Fatalf("block = %v, want %v", block.Samples(), want)
		}
	})

	t.Run("zero samples", func(t *testing.T) {
		t.Parallel()

		block := buffer.FromRows([][]float64{testutil.Ones(3)})
		if n := r.ApplyToBuffer(s, 0, host, block.Channel); n != 0 {
			t.Fatalf("applied = %d, want 0", n)
		}
	})
}

func TestApplyToBufferUnknownStream(t *testing.T) {
	t.Parallel()

	s := testStream(4, 2, 2, 2)
	host := newFakeHost(2, s)
	block := buffer.FromRows([][]float64{{1, 1}, {1, 1}})

	if n := NewRegistry().ApplyToBuffer(s, 2, host, block.Channel); n != 0 {
		t.Fatalf("applied = %d, want 0", n)
	}
	if want := testutil.Ones(4); !equalSlices(block.Samples(), want) {
		t.Fatalf("block = %v, want %v", block.Samples(), want)
	}
}

func TestStreamIDsSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Reconcile([]Stream{testStream(9, 1, 1, 0), testStream(3, 1, 1, 0), testStream(5, 1, 1, 0)})

	if got := r.StreamIDs(); !slices.Equal(got, []StreamID{3, 5, 9}) {
		t.Fatalf("StreamIDs() = %v, want [3 5 9]", got)
	}
}
