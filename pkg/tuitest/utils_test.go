package tuitest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1mbold\x1b[0m   \nplain  \n\n"
	assert.Equal(t, "bold\nplain", StripANSI(in))
}

func TestKey(t *testing.T) {
	for _, name := range []string{"j", "enter", "tab", "esc", "up", "down", "pgdown", "pgup", "ctrl+c", "3"} {
		assert.Equal(t, name, Key(name).String())
	}
}

func TestType(t *testing.T) {
	msgs := Type("hé")
	assert.Len(t, msgs, 2)
}
