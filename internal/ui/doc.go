// Package ui provides terminal building blocks shared by the CLI commands
// and the dashboard.
//
// # Components Overview
//
//	Spinner        - line-based progress indicator for CLI commands
//	Loader         - Bubble Tea spinner for the dashboard
//	Tables         - styled Bubbles tables and plain CLI tables
//	Sparkline      - one-line alert trend
//	RenderBarChart - vertical bars for the hourly alert chart
//	Progress bar   - completion bar for PROCESS results
//
// # Color Scheme
//
// Semantic colors are ANSI codes for broad terminal compatibility. Accent
// colors are truecolor hex values and degrade with the terminal profile.
// ApplyColorMode honours output.color (auto, always, never).
package ui
