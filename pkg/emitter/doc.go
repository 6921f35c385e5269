// Package emitter provides a small, type-safe, synchronous event hub.
//
// Listeners are registered per event either persistently (On) or for a single
// delivery (Once). Emit delivers to a snapshot of the listeners registered at
// the time of the call, in registration order, and returns after every
// listener has returned. Removing a listener while an emit is in flight does
// not affect that emit.
//
// Basic usage:
//
//	hub := emitter.New[string]()
//	sub := hub.On("saved", func() { fmt.Println("saved") })
//	hub.Once("saved", func() { fmt.Println("first save") })
//
//	hub.Emit("saved") // prints "saved", then "first save"
//	hub.Emit("saved") // prints "saved"
//	hub.Off(sub)
//
// A panicking listener propagates to the caller of Emit unless the emitter was
// created with WithPanicHandler, in which case the panic is reported and the
// remaining listeners still run.
package emitter
