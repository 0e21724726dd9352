package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the console.
type MsgKind int

// Msg represents all possible messages in the console (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgReply MsgKind = iota
	MsgHandled
)

// replyMsg is the constructor for [MsgReply]
func replyMsg(reply consoleReply) Msg {
	return Msg{kind: MsgReply, data: reply}
}

// handledMsg is the constructor for [MsgHandled]
func handledMsg() Msg {
	return Msg{kind: MsgHandled}
}
