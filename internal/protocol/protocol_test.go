package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"#login alice", true},
		{"#", true},
		{"hello", false},
		{" #quit", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCommand(tt.line), "IsCommand(%q)", tt.line)
	}
}

func TestParseLogin(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wantID string
		wantOK bool
	}{
		{"with id", "#login alice", "alice", true},
		{"extra whitespace", "#login   bob  ", "bob", true},
		{"extra tokens", "#login carol smith", "carol", true},
		{"missing id", "#login", "", true},
		{"other command", "#logoff", "", false},
		{"prefix only", "#loginalice", "", false},
		{"longer command word", "#loginx bob", "", false},
		{"tab separated", "#login\tdave", "dave", true},
		{"chat", "hello", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseLogin(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestPayloads(t *testing.T) {
	assert.Equal(t, "#login alice", LoginLine("alice"))
	assert.Equal(t, "alice: hi", ChatLine("alice", "hi"))
	assert.Equal(t, "alice has logged on", JoinNotice("alice"))
	assert.Equal(t, "alice has disconnected", LeaveNotice("alice"))
	assert.Equal(t, "SERVER MSG> maintenance at noon", ServerLine("maintenance at noon"))
}

func TestLoginLineRoundTrip(t *testing.T) {
	id, ok := ParseLogin(LoginLine("dave"))
	assert.True(t, ok)
	assert.Equal(t, "dave", id)
}
