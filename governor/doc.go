// Package governor bounds how many asynchronous units of work run at once.
//
// Four policies implement Governor:
//
//   - Unbounded admits everything immediately.
//   - Bounded hands out a fixed number of permits.
//   - Jittered adds a random delay in [min, max] after admission.
//   - Paced adds a token bucket limiting starts per second.
//
// Run submits a batch of tasks through one governor and returns their results
// in input order:
//
//	g := governor.NewJittered(5, 100*time.Millisecond, 5*time.Second)
//	results := governor.Run(ctx, g, tasks)
//
// Governors are safe for concurrent use and are meant to be shared by every
// stage that targets the same remote resource. They never cancel work; a
// panicking task is reported as aborted and its permit is returned.
package governor
