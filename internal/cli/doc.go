// Package cli implements the camai command-line interface.
//
// Each command is a cobra.Command whose RunE delegates to a plain function
// taking the command, so tests can drive the whole tree through run with
// captured output.
//
// # Command Structure
//
//	camai dashboard            - Full-screen Bubble Tea console
//	camai monitors [...]       - List, create, update, delete, test and trigger monitors
//	camai logs                 - Analysis log, with --watch to follow it
//	camai stats                - Alert counts and the hourly histogram
//	camai doctor               - Diagnose config and backend problems
//	camai config [...]         - init, show and set
//	camai mock-backend         - In-memory stand-in for the backend
//	camai version              - Build information
//
// # Bootstrap
//
// The root PersistentPreRunE resolves the config, applies --api-url, sets
// up the stderr logger and builds the API client into a session. Commands
// annotated with skipBootstrap (version, doctor, config init and set,
// mock-backend, completion) do their own setup, since they must work
// without a valid config.
//
// # Output
//
// With --json every command writes a single JSONEnvelope to stdout, and
// failures become an envelope with a stable error code instead of styled
// text on stderr. logs --watch writes one JSON object per new entry.
package cli
