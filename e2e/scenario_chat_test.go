package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"parent-portal/domain"
)

func Test_Scenario_Chat_Idempotent_Creation(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	alice := h.registerUser("alice", domain.RoleParent)
	bob := h.registerUser("bob", domain.RoleTeacher)

	status, raw := h.do(http.MethodPost, "/api/communication/chats", map[string]int64{
		"participant1Id": alice.ID,
		"participant2Id": bob.ID,
	})
	req.Equal(http.StatusCreated, status, string(raw))

	var chat domain.Chat
	req.NoError(json.Unmarshal(raw, &chat))
	req.NotEmpty(chat.ID)

	// reversed participant order still targets the same pair
	status, _ = h.do(http.MethodPost, "/api/communication/chats", map[string]int64{
		"participant1Id": bob.ID,
		"participant2Id": alice.ID,
	})
	req.Equal(http.StatusConflict, status)
}

func Test_Scenario_Chat_Message_Roundtrip(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)

	alice := h.registerUser("alice", domain.RoleParent)
	bob := h.registerUser("bob", domain.RoleTeacher)

	status, raw := h.do(http.MethodPost, "/api/communication/chats", map[string]int64{
		"participant1Id": alice.ID,
		"participant2Id": bob.ID,
	})
	req.Equal(http.StatusCreated, status)
	var chat domain.Chat
	req.NoError(json.Unmarshal(raw, &chat))

	status, _ = h.do(http.MethodPost, fmt.Sprintf("/api/communication/chats/%s/messages", chat.ID), map[string]any{
		"senderId": alice.ID,
		"content":  "hello bob",
	})
	req.Equal(http.StatusCreated, status)

	status, raw = h.do(http.MethodGet, "/api/communication/chats/"+chat.ID, nil)
	req.Equal(http.StatusOK, status)

	var view struct {
		Participant1Username string `json:"participant1Username"`
		Participant2Username string `json:"participant2Username"`
		Messages             []struct {
			Content        string `json:"content"`
			SenderUsername string `json:"senderUsername"`
		} `json:"messages"`
	}
	req.NoError(json.Unmarshal(raw, &view))
	req.Equal("alice", view.Participant1Username)
	req.Equal("bob", view.Participant2Username)
	req.Len(view.Messages, 1)
	req.Equal("hello bob", view.Messages[0].Content)
	req.Equal("alice", view.Messages[0].SenderUsername)
}
