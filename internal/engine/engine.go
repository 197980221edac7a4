// Package engine evaluates tool calls against the layered permission policy
// and produces one verdict per call.
//
// Precedence is fixed: catastrophe denylist, then deny rules, then allow
// rules (subject to the content scan and the semantic judge, which can only
// soften allow to ask), then ask rules, then a default of ask. A deny is
// unrecoverable within the call; an ask can always be overridden by the
// developer, which is why the safety nets never harden a verdict to deny.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Z-Lemke/claude-auto-learn/internal/audit"
	"github.com/Z-Lemke/claude-auto-learn/internal/content"
	"github.com/Z-Lemke/claude-auto-learn/internal/denylist"
	"github.com/Z-Lemke/claude-auto-learn/internal/judge"
	"github.com/Z-Lemke/claude-auto-learn/internal/notify"
	"github.com/Z-Lemke/claude-auto-learn/internal/rule"
	"github.com/Z-Lemke/claude-auto-learn/internal/settings"

	"github.com/google/shlex"
)

type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
	DecisionAsk   Decision = "ask"
)

// Verdict is the terminal value of one evaluation.
type Verdict struct {
	Decision Decision `json:"decision"`
	Reason   string   `json:"reason"`
}

// ToolCall is one action the agent wants to take. ToolInput is tool-shaped:
// command for shell, url for fetches, file_path/content for writes,
// new_source for notebook cells.
type ToolCall struct {
	SessionID string          `json:"session_id"`
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// PolicySource supplies the merged policy for an evaluation. Settings are
// re-read per call so edits take effect without restarting anything.
type PolicySource interface {
	Load() settings.PolicySet
}

// StaticPolicies is a fixed PolicySource, used by tests and one-off checks.
type StaticPolicies settings.PolicySet

func (p StaticPolicies) Load() settings.PolicySet {
	return settings.PolicySet(p)
}

const notifyTimeout = 5 * time.Second

// Engine holds no cross-call mutable state; concurrent evaluations need no
// coordination beyond the audit logger's own serialization.
type Engine struct {
	policies PolicySource
	judge    judge.Judge
	auditor  *audit.Logger
	notifier notify.Notifier
}

func New(policies PolicySource, j judge.Judge, auditor *audit.Logger, notifier notify.Notifier) *Engine {
	return &Engine{policies: policies, judge: j, auditor: auditor, notifier: notifier}
}

// Evaluate runs one single-shot evaluation and appends the decision to the
// audit log. Audit or notification failures never change the verdict.
func (e *Engine) Evaluate(ctx context.Context, call ToolCall) Verdict {
	if len(call.ToolInput) == 0 {
		call.ToolInput = json.RawMessage(`{}`)
	}

	verdict := e.evaluate(ctx, call)
	e.record(ctx, call, verdict)
	return verdict
}

func (e *Engine) evaluate(ctx context.Context, call ToolCall) (verdict Verdict) {
	// An unevaluated call is safer denied than silently allowed.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Evaluation panicked", "tool", call.ToolName, "error", r)
			verdict = Verdict{Decision: DecisionDeny, Reason: fmt.Sprintf("evaluation error: %v", r)}
		}
	}()

	if rule.CategoryOf(call.ToolName) == rule.CategoryShell {
		if reason, hit := denylist.Scan(shellCommand(call)); hit {
			return Verdict{Decision: DecisionDeny, Reason: "Blocked by safety denylist: " + reason}
		}
	}

	policy := e.policies.Load()

	for _, raw := range policy.Deny {
		if rule.Parse(raw).Matches(call.ToolName, call.ToolInput) {
			return Verdict{Decision: DecisionDeny, Reason: "Blocked by deny rule: " + raw}
		}
	}

	for _, raw := range policy.Allow {
		if !rule.Parse(raw).Matches(call.ToolName, call.ToolInput) {
			continue
		}
		if reason, hit := content.Evaluate(call.ToolName, call.ToolInput); hit {
			return Verdict{Decision: DecisionAsk, Reason: reason}
		}
		if e.judge != nil && e.judge.Available() {
			result := e.judge.Judge(ctx, call.ToolName, call.ToolInput)
			if !result.Safe {
				return Verdict{
					Decision: DecisionAsk,
					Reason:   fmt.Sprintf("LLM judge flagged (%s risk): %s", result.Risk, result.Reason),
				}
			}
		}
		return Verdict{Decision: DecisionAllow, Reason: "Approved by allow rule: " + raw}
	}

	for _, raw := range policy.Ask {
		if rule.Parse(raw).Matches(call.ToolName, call.ToolInput) {
			return Verdict{Decision: DecisionAsk, Reason: "Requires approval per ask rule: " + raw}
		}
	}

	return Verdict{Decision: DecisionAsk, Reason: "No matching permission rule (default: ask)"}
}

func (e *Engine) record(ctx context.Context, call ToolCall, verdict Verdict) {
	if err := e.auditor.Log(ctx, &audit.Record{
		SessionID: call.SessionID,
		ToolName:  call.ToolName,
		ToolInput: call.ToolInput,
		Decision:  string(verdict.Decision),
		Reason:    verdict.Reason,
		Command:   commandHead(call),
	}); err != nil {
		slog.Warn("Audit logging failed", "tool", call.ToolName, "error", err)
	}

	if verdict.Decision == DecisionDeny && e.notifier != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		_ = e.notifier.NotifyDeny(nctx, call.ToolName, commandHead(call), verdict.Reason)
	}
}

func shellCommand(call ToolCall) string {
	var args struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(call.ToolInput, &args); err != nil {
		return ""
	}
	return args.Command
}

// commandHead extracts the base command of a shell call for audit filtering
// and deny alerts. Unsplittable commands fall back to the empty string.
func commandHead(call ToolCall) string {
	if rule.CategoryOf(call.ToolName) != rule.CategoryShell {
		return ""
	}
	tokens, err := shlex.Split(shellCommand(call))
	if err != nil || len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
