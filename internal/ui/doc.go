// Package ui implements a local chat console using bubbletea's Elm architecture.
//
// The console stands in for Telegram during development: typed lines become
// dialog events, and everything the bot would send to a chat is rendered as
// terminal output instead.
//
//  1. Lines starting with "/" become commands ("/start", "/cancel", ...)
//  2. Lines starting with "?" become ad hoc queries ("?" alone asks what is playing)
//  3. Any other line is a text reply in the sign-in dialog
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Bot replies flow through a channel from [ConsoleTransport], providing
// non-blocking rendering while a handler runs.
package ui
