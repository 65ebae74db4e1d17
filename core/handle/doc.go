// Package handle provides revocable tokens for outstanding asynchronous work
// and live subscriptions.
//
// A Handle is closed exactly once in effect; closing it again is a no-op.
// Tokens are backed by a context so that a gateway query started on behalf of
// a token observes cancellation, and so that results posted back to the owner
// can be validated with Valid at apply time.
//
//	tok := handle.New(parent)
//	pool.Go(tok, job)
//	...
//	tok = handle.Close(tok) // cancels the job and drops any late result
package handle
