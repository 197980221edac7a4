// Package hook speaks the PreToolUse wire protocol: a JSON tool call on
// stdin, an optional JSON decision on stdout.
package hook

import (
	"encoding/json"
	"fmt"
	"io"

	claErrors "github.com/Z-Lemke/claude-auto-learn/internal/errors"
	"github.com/Z-Lemke/claude-auto-learn/internal/engine"
)

// Input is the payload delivered for each intercepted tool call.
type Input struct {
	SessionID string          `json:"session_id"`
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// Output wraps the decision in the envelope the host understands.
type Output struct {
	HookSpecificOutput Decision `json:"hookSpecificOutput"`
}

type Decision struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// ReadInput decodes one tool call from r.
func ReadInput(r io.Reader) (*Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("%w: decode hook input: %w", claErrors.ErrInternal, err)
	}
	return &in, nil
}

// Respond translates a verdict into the hook protocol. An allow returns nil:
// silence lets the host apply its own downstream permission flow unchanged.
func Respond(verdict engine.Verdict) *Output {
	if verdict.Decision == engine.DecisionAllow {
		return nil
	}
	return &Output{
		HookSpecificOutput: Decision{
			HookEventName:            "PreToolUse",
			PermissionDecision:       string(verdict.Decision),
			PermissionDecisionReason: verdict.Reason,
		},
	}
}

// DenyOutput builds the fail-closed response used when evaluation itself
// cannot run, for example on unreadable input.
func DenyOutput(reason string) *Output {
	return Respond(engine.Verdict{Decision: engine.DecisionDeny, Reason: reason})
}

// WriteOutput emits the response, or nothing for a nil output.
func WriteOutput(w io.Writer, out *Output) error {
	if out == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(out)
}
