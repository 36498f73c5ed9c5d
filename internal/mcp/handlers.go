package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/pace/internal/engine"
	"github.com/hpungsan/pace/internal/errors"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	engine *engine.Engine
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(eng *engine.Engine) *Handlers {
	return &Handlers{engine: eng}
}

// Request types for each tool

// CheckRequest represents the arguments for post_check.
type CheckRequest struct {
	Text string `json:"text"`
}

// SubmitRequest represents the arguments for post_submit.
type SubmitRequest struct {
	Text          string   `json:"text"`
	ReplyTo       string   `json:"reply_to,omitempty"`
	QuoteID       string   `json:"quote_id,omitempty"`
	MediaIDs      []string `json:"media_ids,omitempty"`
	Force         bool     `json:"force,omitempty"`
	Wait          bool     `json:"wait,omitempty"`
	JitterMinutes *int     `json:"jitter_minutes,omitempty"`
}

// HistoryRequest represents the arguments for post_history.
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// Handler implementations

// HandleCheck handles the post_check tool call.
func (h *Handlers) HandleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.engine.Check(input.Text)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSubmit handles the post_submit tool call.
func (h *Handlers) HandleSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SubmitRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	submitInput := engine.SubmitInput{
		Text:          input.Text,
		ReplyTo:       input.ReplyTo,
		QuoteID:       input.QuoteID,
		MediaIDs:      input.MediaIDs,
		Force:         input.Force,
		JitterMinutes: input.JitterMinutes,
	}

	var result *engine.Verdict
	if input.Wait {
		result, err = h.engine.SubmitAndWait(ctx, submitInput)
	} else {
		result, err = h.engine.Submit(ctx, submitInput)
	}
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStatus handles the post_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.engine.Status()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the post_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.engine.History(input.Limit)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var pErr *errors.PaceError
	if stderrors.As(err, &pErr) {
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": err.Error(),
			"status":  pErr.Status,
		}
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
