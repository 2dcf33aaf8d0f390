// Command scaleconv drives the scale-converter processor against a simulated
// acquisition host.
//
// Usage:
//
//	scaleconv params
//	scaleconv run --config streams.yaml
//	scaleconv serve --config streams.yaml --listen :9090
//
// run feeds a test tone through every stream for the configured number of
// blocks and prints, per channel, the DC level and tone amplitude before and
// after processing. serve keeps processing at real-time pace and exposes
// Prometheus metrics.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
