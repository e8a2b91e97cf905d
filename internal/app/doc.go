// Package app wires application dependencies for the CLI.
//
// It builds the transport, protocol clients and services from Config,
// exposing them via the Wire struct for commands to use. Fleet fans a
// command out over many devices; App fronts the cloud directory with the
// sealed cache.
package app
