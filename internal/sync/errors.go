package sync

import (
	"errors"
	"fmt"

	"roster-sync/internal/httpx"
	"roster-sync/internal/remote"
)

var (
	// ErrNotConfirmed is returned when a delete was not confirmed. No remote
	// call is made.
	ErrNotConfirmed = errors.New("sync: delete not confirmed")

	// ErrMissingID is returned when an update draft does not carry an id.
	ErrMissingID = errors.New("sync: draft has no id")
)

// RemoteReadError means the list fetch failed. The roster keeps its previous
// content.
type RemoteReadError struct {
	Detail string
	Err    error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("sync: load employees failed: %v", e.Err)
}

func (e *RemoteReadError) Unwrap() error { return e.Err }

// RemoteWriteError means a create, update or delete failed. Local state is
// unchanged and the user may retry by re-triggering the action.
type RemoteWriteError struct {
	Op     string
	ID     int
	Detail string
	Err    error
}

func (e *RemoteWriteError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("sync: %s employee %d failed: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("sync: %s employee failed: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error { return e.Err }

// detailOf returns the server-provided detail of err, or "".
func detailOf(err error) string {
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		return herr.Detail()
	}
	return ""
}

// rejectedByServer separates failures caused by the request (4xx, unknown
// record) from transport and server faults.
func rejectedByServer(err error) bool {
	if errors.Is(err, remote.ErrNotFound) {
		return true
	}
	var herr *httpx.HTTPError
	return errors.As(err, &herr) && !herr.Temporary()
}
