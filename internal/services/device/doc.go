// Package device drives a single logged-in device.
//
// A Client wraps one domain.Session and serialises every request made with
// it: the device keeps one cookie/key/token triple per session and answers
// concurrent requests on the same handle unpredictably.
package device
