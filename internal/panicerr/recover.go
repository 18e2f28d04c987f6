// Package panicerr isolates a function call in its own goroutine so that
// a panic (the macro engine's halt idiom) or a stray runtime.Goexit is
// always converted into a returned error, never a crashed or hung process.
package panicerr

// Recover runs f in a new goroutine, recovering any abnormal exit or
// panic as a non-nil error return instead of propagating it to the
// caller's goroutine.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer recoverExitError(name, errch)
		defer recoverPanicError(name, errch)
		errch <- f()
	}()
	return <-errch
}
