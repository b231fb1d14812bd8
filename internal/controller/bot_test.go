package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandPatternMatchesWholeCommand(t *testing.T) {
	cases := []struct {
		command string
		text    string
		match   bool
	}{
		{"free", "/free", true},
		{"free", "/free 2024-09-03 2", true},
		{"free", "/free@room_bot 2024-09-03 2", true},
		{"free", "/freeze", false},
		{"free", "/free@", false},
		{"free", "free 2024-09-03 2", false},
		{"book", "/book A101 2024-09-03 2 lecture", true},
		{"book", "/bookings", false},
		{"approve", "/approve 6f1c2a4e-6f0a-4c53-9b7e-3c1f2d9a8b70", true},
		{"approve", "/approved", false},
		{"reject", "/rejectall", false},
		{"mybookings", "/mybookings", true},
		{"mybookings", "/mybookings2", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.match, commandPattern(tc.command).MatchString(tc.text), "%s vs %q", tc.command, tc.text)
	}
}
