package coordinator

import "fmt"

// UnavailableError reports that too few replicas were alive to even attempt
// the requested consistency level. It is raised before any dispatch.
type UnavailableError struct {
	Required int
	Alive    int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("insufficient live replicas: need %d, have %d", e.Required, e.Alive)
}

// TimeoutError reports that dispatch occurred but the required
// acknowledgements did not arrive within the deadline. Writes that time out
// are not rolled back; hinted handoff and read repair converge them.
type TimeoutError struct {
	Required int
	Received int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timed out: received %d of %d required responses", e.Received, e.Required)
}

// DigestMismatchError reports a disagreement between a data response and a
// digest response. The read path recovers by re-reading full data from every
// replica; it escapes to the client only if that retry cannot settle the
// row either.
type DigestMismatchError struct {
	Key string
}

func (e *DigestMismatchError) Error() string {
	return fmt.Sprintf("digest mismatch for key %q", e.Key)
}
