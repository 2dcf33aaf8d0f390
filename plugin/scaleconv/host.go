package scaleconv

// ChannelResolver maps a stream-local channel to its row in the shared block.
type ChannelResolver interface {
	GlobalChannelIndex(id StreamID, local int) int
}

// ChannelAccessor returns the writable row for a global channel index.
type ChannelAccessor func(global int) []float64

// Host is what the processor consumes from the surrounding signal chain.
type Host interface {
	ChannelResolver

	// DataStreams returns snapshots of every stream feeding this processor.
	DataStreams() []Stream

	// DataStream returns the snapshot for one stream.
	DataStream(id StreamID) (Stream, bool)

	// NumSamplesInBlock returns the valid sample count of the current block
	// for the stream.
	NumSamplesInBlock(id StreamID) int
}
