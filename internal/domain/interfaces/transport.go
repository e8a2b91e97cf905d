package interfaces

import (
	"context"
	"net/http"
)

// Transport posts a request body to url and returns the response body and
// headers. Implementations must honour ctx for cancellation and deadlines.
type Transport interface {
	Post(ctx context.Context, url string, body []byte, header http.Header) ([]byte, http.Header, error)
}
