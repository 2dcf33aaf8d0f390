// Package hostsim is an in-memory signal-chain host for driving a
// scale-converter processor outside a real acquisition application.
//
// The host keeps an ordered list of streams, lays their channels out
// contiguously in one shared block, and forwards topology and parameter
// changes to the bound plugin the way an acquisition host would.
package hostsim
