package buffer

// Block is a channels x samples matrix of float64 samples stored row-major.
type Block struct {
	data     []float64
	channels int
	samples  int
}

// New returns a zero-filled Block. Negative dimensions are treated as 0.
func New(channels, samples int) *Block {
	channels, samples = clampDims(channels, samples)
	return &Block{
		data:     make([]float64, channels*samples),
		channels: channels,
		samples:  samples,
	}
}

// FromRows copies rows into a new Block. The sample count is the length of
// the longest row; shorter rows are zero-padded.
func FromRows(rows [][]float64) *Block {
	samples := 0
	for _, r := range rows {
		samples = max(samples, len(r))
	}

	b := New(len(rows), samples)
	for i, r := range rows {
		copy(b.Channel(i), r)
	}

	return b
}

// NumChannels returns the number of rows.
func (b *Block) NumChannels() int {
	return b.channels
}

// NumSamples returns the number of samples per row.
func (b *Block) NumSamples() int {
	return b.samples
}

// Channel returns the writable row for global channel index ch, or nil if ch
// is out of range. The returned slice's capacity is capped at NumSamples so
// appends never spill into the next row.
func (b *Block) Channel(ch int) []float64 {
	if ch < 0 || ch >= b.channels {
		return nil
	}

	start := ch * b.samples
	end := start + b.samples

	return b.data[start:end:end]
}

// Samples returns the contiguous backing storage (row-major).
func (b *Block) Samples() []float64 {
	return b.data
}

// Resize sets the block dimensions, reusing existing capacity when possible.
// All samples are zeroed after a resize because rows move when the sample
// count changes.
func (b *Block) Resize(channels, samples int) {
	channels, samples = clampDims(channels, samples)

	n := channels * samples
	if n <= cap(b.data) {
		b.data = b.data[:n]
	} else {
		b.data = make([]float64, n)
	}

	b.channels = channels
	b.samples = samples
	b.Zero()
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// ZeroChannel sets one row to 0. Out-of-range channels are ignored.
func (b *Block) ZeroChannel(ch int) {
	row := b.Channel(ch)
	for i := range row {
		row[i] = 0
	}
}

// CopyFrom copies src into b, resizing b to src's dimensions.
func (b *Block) CopyFrom(src *Block) {
	if cap(b.data) < len(src.data) {
		b.data = make([]float64, len(src.data))
	}

	b.data = b.data[:len(src.data)]
	b.channels = src.channels
	b.samples = src.samples
	copy(b.data, src.data)
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	c := &Block{}
	c.CopyFrom(b)

	return c
}

func clampDims(channels, samples int) (int, int) {
	if channels < 0 {
		channels = 0
	}
	if samples < 0 {
		samples = 0
	}

	return channels, samples
}
