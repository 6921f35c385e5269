// Package async provides a generic single-assignment Future.
//
// A Future is settled exactly once, either by a goroutine started with Async
// or by whoever holds the SettleFunc returned from NewPromise. Callers read the
// outcome with Await, AwaitWithTimeout or AwaitContext, or poll it with
// IsComplete. Settling is idempotent: later calls to the SettleFunc are no-ops
// and report false, which makes NewPromise a good fit for races between an
// event, a timeout and a cancellation.
//
// # Usage
//
//	future, settle := async.NewPromise[string]()
//
//	go func() { settle("event", nil) }()
//	timer := time.AfterFunc(time.Second, func() { settle("", errTimedOut) })
//
//	res, err := future.Await()
//	timer.Stop()
//
// Running a function in the background:
//
//	future := async.Async(ctx, 42, func(_ context.Context, v int) (string, error) {
//	    return fmt.Sprintf("value is %d", v), nil
//	})
//	res, err := future.Await()
//
// # Error Handling
//
// The package returns the error handed to the SettleFunc (or returned by the
// Async callback) unchanged. AwaitWithTimeout reports ErrTimeout and
// AwaitContext reports ctx.Err() without settling the Future.
package async
