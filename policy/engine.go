// Package policy evaluates session access decisions with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the session policy.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Actions a caller can perform on a session.
const (
	ActionRead   = "read"
	ActionChat   = "chat"
	ActionRename = "rename"
	ActionDelete = "delete"
)

// Input is the document a session policy is evaluated against.
type Input struct {
	UserID      string `json:"user_id"`
	OwnerUserID string `json:"owner_user_id"`
	Action      string `json:"action"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.session_policy.decision"),
		rego.Module("session_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision for input. An undefined decision is a deny.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"user_id":       input.UserID,
		"owner_user_id": input.OwnerUserID,
		"action":        input.Action,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionDeny, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionDeny, nil
}

// Allowed reports whether the decision for input is allow.
func (e *Engine) Allowed(ctx context.Context, input Input) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision == DecisionAllow, nil
}

// DefaultPolicy lets a session's owner do anything with it.
const DefaultPolicy = `
package session_policy

default decision = "deny"

decision = "allow" {
	input.user_id != ""
	input.user_id == input.owner_user_id
}
`
