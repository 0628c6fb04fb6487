// Package agentfacade implements the Agent Façade (C9): the single
// entrypoint that assigns/reuses a conversation ID, runs a query through
// the Supervisor, and on approval drives the Reasoning Loop, shaping
// whatever comes back (or whatever typed error was raised) into one
// AgentResponse.
package agentfacade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sandboxagent/sandboxagent/internal/apperr"
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/reasoning"
	"github.com/sandboxagent/sandboxagent/internal/supervisor"
)

// Facade is the process's single query entrypoint, wiring the Supervisor
// ahead of the Reasoning Loop so a rejected query never reaches it.
type Facade struct {
	supervisor *supervisor.Supervisor
	loop       *reasoning.Loop
	debug      bool
}

// New builds a Facade. debug controls whether reasoning_steps and typed
// error context are included in the shaped response.
func New(sup *supervisor.Supervisor, loop *reasoning.Loop, debug bool) *Facade {
	return &Facade{supervisor: sup, loop: loop, debug: debug}
}

// ProcessQuery runs the full pipeline for one user query. conversationID
// may be empty, in which case a new UUID is assigned.
func (f *Facade) ProcessQuery(ctx context.Context, userQuery, conversationID string) domain.AgentResponse {
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	modReq := domain.ModerationRequest{
		UserQuery:      userQuery,
		ConversationID: conversationID,
		Timestamp:      time.Now(),
	}

	modResp := f.supervisor.Moderate(ctx, modReq)
	if modResp.Decision == domain.DecisionRejected {
		return domain.AgentResponse{
			ConversationID: conversationID,
			Response:       formatRejection(modResp),
			ToolsUsed:      []string{},
			Success:        false,
			ErrorMessage:   modResp.Reason,
		}
	}

	select {
	case <-ctx.Done():
		return f.cancelled(conversationID)
	default:
	}

	outcome := f.loop.Run(ctx, userQuery)

	resp := domain.AgentResponse{
		ConversationID: conversationID,
		Response:       outcome.Response,
		ToolsUsed:      outcome.ToolsUsed,
		Success:        true,
		Goal:           outcome.Goal,
		GoalCompliance: outcome.GoalCompliance,
	}
	if resp.ToolsUsed == nil {
		resp.ToolsUsed = []string{}
	}
	if f.debug {
		resp.ReasoningSteps = outcome.ReasoningSteps
	}

	select {
	case <-ctx.Done():
		return f.cancelled(conversationID)
	default:
	}

	return resp
}

// cancelled shapes the partial response returned when the caller's
// context is cancelled mid-request.
func (f *Facade) cancelled(conversationID string) domain.AgentResponse {
	return domain.AgentResponse{
		ConversationID: conversationID,
		Success:        false,
		ErrorMessage:   "cancelled",
		ToolsUsed:      []string{},
		Response:       apperr.Render(apperr.New(apperr.KindReasoning, "request cancelled before completion"), f.debug),
	}
}

func formatRejection(resp domain.ModerationResponse) string {
	reason := resp.Reason
	if reason == "" {
		reason = "this request was not approved for execution"
	}
	err := apperr.New(apperr.KindSafetyViolation, reason,
		"rephrase the request to stay within the workspace's file operations",
	)
	return "🚫 Request rejected: " + apperr.Render(err, false)
}

// RenderError translates a raised typed error into the fixed user-facing
// format, including debug context when debug mode is enabled. Exposed
// for callers (Protocol Adapter) that catch a panic/error outside the
// Reasoning Loop's own graceful-degradation path.
func (f *Facade) RenderError(err error) string {
	return apperr.Render(err, f.debug)
}
