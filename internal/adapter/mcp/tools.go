package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.runObjectiveTool(),
		s.getRunStatusTool(),
		s.listRunsTool(),
		s.listArtifactsTool(),
		s.readArtifactTool(),
	)
}

func (s *Server) runObjectiveTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("run_objective",
		mcplib.WithDescription("Run an objective through the task orchestrator and return the finished run"),
		mcplib.WithString("objective",
			mcplib.Required(),
			mcplib.Description("The objective to decompose and execute"),
		),
		mcplib.WithNumber("max_iterations",
			mcplib.Description("Optional loop cap for the run (default 20)"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleRunObjective,
	}
}

func (s *Server) getRunStatusTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_run_status",
		mcplib.WithDescription("Get the status, tasks, and artifacts of a run by run ID"),
		mcplib.WithString("run_id",
			mcplib.Required(),
			mcplib.Description("The run ID to check"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGetRunStatus,
	}
}

func (s *Server) listRunsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_runs",
		mcplib.WithDescription("List all tracked orchestration runs"),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleListRuns,
	}
}

func (s *Server) listArtifactsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_artifacts",
		mcplib.WithDescription("List the artifact files produced by a run"),
		mcplib.WithString("run_id",
			mcplib.Required(),
			mcplib.Description("The run whose artifacts to list"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleListArtifacts,
	}
}

func (s *Server) readArtifactTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("read_artifact",
		mcplib.WithDescription("Read the content of one artifact file from a run"),
		mcplib.WithString("run_id",
			mcplib.Required(),
			mcplib.Description("The run that owns the artifact"),
		),
		mcplib.WithString("path",
			mcplib.Required(),
			mcplib.Description("The artifact path to read"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleReadArtifact,
	}
}

func (s *Server) handleRunObjective(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	args := req.GetArguments()
	objective, ok := args["objective"].(string)
	if !ok || objective == "" {
		return mcplib.NewToolResultError("objective is required"), nil
	}
	maxIterations := 0
	if v, ok := args["max_iterations"].(float64); ok {
		maxIterations = int(v)
	}

	st, err := s.sessions.Run(ctx, objective, maxIterations)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("run failed", err), nil
	}
	return s.snapshotResult(st.RunID)
}

func (s *Server) handleGetRunStatus(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	runID, ok := req.GetArguments()["run_id"].(string)
	if !ok || runID == "" {
		return mcplib.NewToolResultError("run_id is required"), nil
	}
	return s.snapshotResult(runID)
}

func (s *Server) handleListRuns(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	sessions := s.sessions.List()
	out := make([]any, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sess.Snapshot().State)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal runs", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleListArtifacts(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	runID, ok := req.GetArguments()["run_id"].(string)
	if !ok || runID == "" {
		return mcplib.NewToolResultError("run_id is required"), nil
	}
	sess, err := s.sessions.Get(runID)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("run %s not found", runID), err), nil
	}
	data, err := json.Marshal(sess.Artifacts.List())
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal artifacts", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleReadArtifact(_ context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	args := req.GetArguments()
	runID, _ := args["run_id"].(string)
	path, _ := args["path"].(string)
	if runID == "" || path == "" {
		return mcplib.NewToolResultError("run_id and path are required"), nil
	}

	sess, err := s.sessions.Get(runID)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("run %s not found", runID), err), nil
	}
	content, err := sess.Artifacts.Read(path)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("failed to read %s", path), err), nil
	}
	return mcplib.NewToolResultText(content), nil
}

func (s *Server) snapshotResult(runID string) (*mcplib.CallToolResult, error) {
	sess, err := s.sessions.Get(runID)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("run %s not found", runID), err), nil
	}
	data, err := json.Marshal(sess.Snapshot())
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal run", err), nil
	}
	return toolResultJSON(string(data)), nil
}
