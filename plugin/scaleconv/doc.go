// Package scaleconv implements a scale-converter processor for a modular
// multi-stream acquisition pipeline. Every selected channel of every enabled
// stream is transformed in place by y = x*scaling + offset.
//
// The Registry keeps one FilterSet per live stream, keyed by StreamID, and
// reconciles that set whenever the host reports a topology change. The
// Processor glues host notifications (settings update, parameter change,
// new block) to the Registry.
//
// All entry points are synchronous and expect to be called from a single
// host processing goroutine.
package scaleconv
