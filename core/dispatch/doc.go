// Package dispatch implements the owner execution context: a single goroutine
// draining a FIFO queue of tasks.
//
// State that belongs to an owner (a media set and its views) is only touched
// from tasks running on its Loop. Background goroutines never mutate that
// state directly; they Post a closure that applies their result. Tasks posted
// from the same goroutine run in posting order.
//
// # Access checks
//
// Owner-only entry points call VerifyAccess, which panics with ErrWrongOwner
// when invoked from any goroutine other than the one running the loop.
// Callers outside the loop use Call to run a function on it and wait.
//
// # Usage
//
//	loop := dispatch.New(logger)
//	go loop.Run(ctx)
//	err := loop.Call(ctx, func() {
//	    view, _ = set.Open(media.ByDateTaken(true), 200, 0)
//	})
package dispatch
