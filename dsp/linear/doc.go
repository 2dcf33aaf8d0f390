// Package linear provides the per-channel affine transform used by the
// scale converter: y = x*scaling + offset, applied in place over a block of
// samples.
//
// The multiply runs through SIMD block kernels when the CPU supports them;
// the offset is added in a separate pass so every sample is rounded after the
// multiply and again after the add, independent of architecture.
package linear
