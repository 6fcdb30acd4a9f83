package dataaccess

import "fmt"

// RemoteError is a non-2xx answer from the backend.
type RemoteError struct {
	Status   int
	Endpoint string
	Body     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("api error: %d on %s", e.Status, e.Endpoint)
}

// TransportError means the backend could not be reached or the exchange broke off.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
