// Package startstop provides a lifecycle with delayed, cancelable start and stop.
//
//	STOPPED --ScheduleStart--> STARTING --start delay--> STARTED
//	STARTED --ScheduleStop---> STOPPING --stop delay---> STOPPED
//	STARTING --AbortStart--> STOPPED
//	STOPPING --AbortStop---> STARTED
//
// A typical use is keeping a resource alive for a while after its last user
// left and cancelling the shutdown when a user comes back:
//
//	h := startstop.MustNew(0, 30*time.Second)
//	h.OnStart(connect)
//	h.OnStop(disconnect)
//
//	// last user left
//	_, _ = h.ScheduleStop()
//	// user joined again within 30s
//	_, _ = h.AbortStop()
//
// There is no reset; the cycle repeats indefinitely. Errors, options, waits
// and notices behave as in package transition.
package startstop
