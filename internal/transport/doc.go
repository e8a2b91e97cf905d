// Package transport provides the HTTP implementation of domain.Transport.
//
// It posts JSON bodies, copies caller headers onto the request and hands back
// the raw response body and headers. Non-2xx statuses are returned as errors
// carrying the URL and status text. Deadlines come from the caller's context
// and from the client timeout.
package transport
