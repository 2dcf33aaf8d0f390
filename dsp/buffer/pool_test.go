package buffer

import "testing"

func TestPoolGetReturnsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(2, 8)
	if b.NumChannels() != 2 || b.NumSamples() != 8 {
		t.Fatalf("dims = %dx%d, want 2x8", b.NumChannels(), b.NumSamples())
	}

	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}

	p.Put(b)
}

func TestPoolReuseIsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(1, 4)
	b.Channel(0)[0] = 42
	b.Channel(0)[1] = 43
	p.Put(b)

	b2 := p.Get(1, 4)
	for i, v := range b2.Samples() {
		if v != 0 {
			t.Fatalf("reused Samples()[%d] = %v, want 0", i, v)
		}
	}

	p.Put(b2)
}

func TestPoolPutNilSafe(_ *testing.T) {
	p := NewPool()
	p.Put(nil) // must not panic
}
