// Package commands defines the tapo CLI and wires dependencies for subcommands.
//
// Commands
//
//   - devices     List devices registered to the cloud account
//   - on, off     Switch devices on or off
//   - brightness  Set brightness in percent
//   - temp        Set white colour temperature in kelvin
//   - color       Set a preset or #rrggbb colour
//   - info        Print each device's status snapshot
//   - publish     Publish status snapshots to NATS
//
// # Device selection
//
// Devices are addressed with --host (repeatable) or with --type, which lists
// the account's devices of that type and resolves each hardware address
// through the hosts table in the config file.
//
// # Implementation
//
// The root command loads the config file, applies environment overrides and
// builds the dependency graph before any subcommand runs.
package commands
