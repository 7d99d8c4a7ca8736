// Package protocol defines the simplechat wire vocabulary: the login
// handshake and the shape of every line the server fans out.
//
// The wire format is newline-delimited UTF-8 text.  A line whose first
// character is '#' is a command; anything else is chat data.
package protocol

import "strings"

const (
	// CommandPrefix marks a line as a command.
	CommandPrefix = "#"

	// LoginCommand is the handshake a client sends as its first line.
	LoginCommand = "#login"

	// ServerPrefix tags lines typed on the server console.
	ServerPrefix = "SERVER MSG> "
)

// IsCommand reports whether line is a command line.
func IsCommand(line string) bool {
	return strings.HasPrefix(line, CommandPrefix)
}

// LoginLine builds the handshake payload for id.
func LoginLine(id string) string {
	return LoginCommand + " " + id
}

// ParseLogin reports whether line is a login command and returns the
// identity it carries.  The identity is empty when the command has no
// argument.  Extra tokens after the identity are ignored.
func ParseLogin(line string) (id string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != LoginCommand {
		return "", false
	}
	if len(fields) > 1 {
		id = fields[1]
	}
	return id, true
}

// ChatLine is the broadcast form of text sent by id.
func ChatLine(id, text string) string {
	return id + ": " + text
}

// JoinNotice announces that id completed the handshake.
func JoinNotice(id string) string {
	return id + " has logged on"
}

// LeaveNotice announces that id's connection is gone.
func LeaveNotice(id string) string {
	return id + " has disconnected"
}

// ServerLine is the broadcast form of text typed by the operator.
func ServerLine(text string) string {
	return ServerPrefix + text
}
