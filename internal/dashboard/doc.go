// Package dashboard implements the full-screen Camai console.
//
// The dashboard is a Bubble Tea program with four tabs:
//
//   - Dashboard: alert counter, active monitors, backend health, the hourly
//     alert chart and the latest log entries
//   - Cameras: the monitor table with create, edit, delete, test scan,
//     trigger, webhook and bridge actions
//   - Logs: the analysis feed, rendered per monitor type and polled while
//     the tab is visible
//   - Settings: the effective configuration
//
// # Message Flow
//
// Backend calls never run on the event loop. Each action returns a tea.Cmd
// that talks to the backend through state.Store or the API client and
// reports back with a message:
//
//  1. Init issues loadCmd and pingCmd
//  2. loadedMsg and pingMsg update the cached view state
//  3. Entering the Logs tab starts a poll generation; logsMsg schedules the
//     next logTickMsg only while that generation is current
//  4. Forms (huh) take over key handling until they complete or abort
//
// Every failure ends up on the status line. Nothing the backend does can
// terminate the program.
package dashboard
