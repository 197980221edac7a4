package hook

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Z-Lemke/claude-auto-learn/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	payload := `{"session_id":"abc","tool_name":"Bash","tool_input":{"command":"ls -la"}}`

	in, err := ReadInput(strings.NewReader(payload))

	require.NoError(t, err)
	assert.Equal(t, "abc", in.SessionID)
	assert.Equal(t, "Bash", in.ToolName)
	assert.JSONEq(t, `{"command":"ls -la"}`, string(in.ToolInput))
}

func TestReadInputMalformed(t *testing.T) {
	_, err := ReadInput(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestRespondAllowIsSilent(t *testing.T) {
	out := Respond(engine.Verdict{Decision: engine.DecisionAllow, Reason: "Approved by allow rule: Bash(git *)"})
	assert.Nil(t, out)
}

func TestRespondDeny(t *testing.T) {
	out := Respond(engine.Verdict{Decision: engine.DecisionDeny, Reason: "Blocked by deny rule: Bash(rm *)"})

	require.NotNil(t, out)
	assert.Equal(t, "PreToolUse", out.HookSpecificOutput.HookEventName)
	assert.Equal(t, "deny", out.HookSpecificOutput.PermissionDecision)
	assert.Equal(t, "Blocked by deny rule: Bash(rm *)", out.HookSpecificOutput.PermissionDecisionReason)
}

func TestRespondAskEnvelope(t *testing.T) {
	out := Respond(engine.Verdict{Decision: engine.DecisionAsk, Reason: "No matching permission rule (default: ask)"})

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, out))

	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	inner := decoded["hookSpecificOutput"]
	assert.Equal(t, "PreToolUse", inner["hookEventName"])
	assert.Equal(t, "ask", inner["permissionDecision"])
	assert.Equal(t, "No matching permission rule (default: ask)", inner["permissionDecisionReason"])
}

func TestWriteOutputNilWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, nil))
	assert.Zero(t, buf.Len())
}

func TestDenyOutput(t *testing.T) {
	out := DenyOutput("evaluation error: boom")

	require.NotNil(t, out)
	assert.Equal(t, "deny", out.HookSpecificOutput.PermissionDecision)
	assert.Equal(t, "evaluation error: boom", out.HookSpecificOutput.PermissionDecisionReason)
}
