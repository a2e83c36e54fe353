// Package clock provides an injectable source of the current UTC time.
//
// Code that needs "now" should depend on Provider rather than calling
// time.Now directly, so tests can substitute a Fixed clock.
//
//	var c clock.Provider = clock.System{}
//	ts := c.UTCNow()
package clock
