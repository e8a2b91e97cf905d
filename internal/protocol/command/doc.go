// Package command defines the closed set of device commands.
//
// Each variant knows its wire method and parameter object. The set is sealed
// by an unexported method so only commands declared here can be dispatched;
// the encryption layer stays generic over any JSON value.
package command
