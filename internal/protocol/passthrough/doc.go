// Package passthrough carries encrypted commands to a device.
//
// Every command is JSON-encoded, encrypted under the handshake's session key
// and wrapped as {"method":"securePassthrough","params":{"request":<b64>}}.
// The request carries the session cookie as a header and, after login, the
// device token as a query parameter.
//
// Both response layers are checked: the outer envelope may succeed while the
// inner command fails. An outer failure is a *ChannelError, an inner one a
// *CommandRejected; both unwrap to the *status.Error.
package passthrough
