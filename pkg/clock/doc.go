// Package clock abstracts the timer service used by delayed transitions.
//
// Production code uses System, which delegates to time.AfterFunc. Tests use
// Fake, which only fires callbacks when Advance is called, so schedule/abort
// races can be reproduced deterministically:
//
//	clk := clock.NewFake(time.Now())
//	clk.AfterFunc(time.Second, func() { fmt.Println("fired") })
//	clk.Advance(time.Second) // prints "fired"
package clock
