// Package broadcast fans typed messages out to any number of subscribers.
//
// Broadcasting never blocks: each subscriber owns a buffered channel and a
// message that does not fit is dropped for that subscriber only and counted
// in Dropped. Subscribers stay attached until they are closed, their
// subscription context is done or the broadcaster is closed.
//
//	b := broadcast.NewMemoryBroadcaster[string](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for msg := range sub.Receive(ctx) {
//		fmt.Println(msg.Data)
//	}
package broadcast
