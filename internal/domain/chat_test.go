package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	r, err = ParseRole("assistant")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, r)

	for _, bad := range []string{"", "system", "User", "bot"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, bad)
	}
}

func TestChatTurn_JSON(t *testing.T) {
	b, err := json.Marshal([]ChatTurn{UserTurn("hi"), AssistantTurn("hello")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`, string(b))

	var turns []ChatTurn
	err = json.Unmarshal([]byte(`[{"role":"system","content":"x"}]`), &turns)
	assert.Error(t, err, "roles outside the closed set are rejected")

	_, err = json.Marshal(ChatTurn{Content: "no role"})
	assert.Error(t, err, "the zero role is never written")
}

func TestNotebook_Latest(t *testing.T) {
	var nilNB *Notebook
	assert.Empty(t, nilNB.Latest())

	nb := &Notebook{}
	assert.Empty(t, nb.Latest())

	s1 := "S1"
	nb.LatestSessionID = &s1
	assert.Equal(t, "S1", nb.Latest())
}

func TestNotebook_JSONNullLatest(t *testing.T) {
	b, err := json.Marshal(Notebook{ID: "nb-1", Title: "Talk"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"latest_session_id":null`)
	assert.Contains(t, string(b), `"notebook_title":"Talk"`)
}
