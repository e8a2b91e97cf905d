package status

import "encoding/json"

// Response is the {error_code, result} shape shared by every response layer.
// A missing error_code decodes as OK.
type Response struct {
	ErrorCode Code            `json:"error_code"`
	Result    json.RawMessage `json:"result,omitempty"`
	Message   string          `json:"msg,omitempty"`
}

// Err checks the response's status code.
func (r Response) Err() error { return Check(r.ErrorCode) }
