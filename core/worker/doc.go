// Package worker runs blocking gateway work off the owner goroutine.
//
// Every job is bound to a handle.Token: a job whose token is closed before it
// starts never runs, and a running job sees the token's context cancelled.
// Job errors and panics are logged and converted into "nothing happened"; they
// never reach the owner.
package worker
