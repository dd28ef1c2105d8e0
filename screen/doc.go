// Package screen holds the presentation logic of the app's screens without
// any UI toolkit: each screen owns its state, fetches once on mount, and
// renders to a plain View that a frontend (terminal, MCP tool, mobile
// bridge) draws however it likes.
package screen
