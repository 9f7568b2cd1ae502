package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Clean_Masks_Blocked_Word(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"scam"}, '*')
	req.NoError(err)

	req.Equal("this is a ****", m.Clean("this is a scam"))
}

func Test_Clean_Ignores_Case_And_Punctuation(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"scam"}, '*')
	req.NoError(err)

	req.Equal("*******", m.Clean("S.c A-m"))
}

func Test_Clean_Leaves_Clean_Message_Untouched(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator([]string{"scam"}, '*')
	req.NoError(err)

	msg := "school fees are due friday"
	req.Equal(msg, m.Clean(msg))
}

func Test_Clean_Empty_Word_List_Passes_Through(t *testing.T) {
	req := require.New(t)
	m, err := NewModerator(nil, '*')
	req.NoError(err)

	req.Equal("anything goes", m.Clean("anything goes"))
}
