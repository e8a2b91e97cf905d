// Package status maps the numeric error_code carried by every cloud and
// device response to a stable error category.
//
// Code 0 (or an absent field) is success. Every other value produces a
// *Error; known codes match one of the exported sentinels via errors.Is and
// unknown codes match ErrUnexpected. No code is ever ignored.
package status
