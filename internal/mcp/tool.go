// Package mcp serves the call-graph query layer over the Model Context
// Protocol on stdio, so agent tooling can explore an analyzed build.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/asmscope/asmscope/internal/graph"
)

// functionView is the wire form of one function identity.
type functionView struct {
	Name         string `json:"name"`
	Local        bool   `json:"local,omitempty"`
	Object       string `json:"object,omitempty"` // owning object, local symbols only
	Instructions int    `json:"instructions,omitempty"`
}

// reportView is the wire form of a full function report.
type reportView struct {
	Function functionView   `json:"function"`
	Objects  []string       `json:"objects"`
	Callers  []functionView `json:"callers"`
	Callees  []functionView `json:"callees"`
}

// AddCallGraphTool registers the callgraph_query tool with an MCP server.
func AddCallGraphTool(s *server.MCPServer, kb *graph.KnowledgeBase) {
	tool := mcp.NewTool(
		"callgraph_query",
		mcp.WithDescription("Query the cross-translation-unit call graph extracted from compiler assembly. Operations: top (hottest functions by instruction count), common (functions defined in every analyzed object), report (defining objects, direct callers and callees of one function)."),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("Type of query: 'top', 'common', or 'report'")),
		mcp.WithString("target",
			mcp.Description("Function name to report on (required for 'report')")),
		mcp.WithString("object",
			mcp.Description("Output path disambiguating a local function (for 'report')")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results for 'top' (default: 20)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createCallGraphHandler(kb))
}

// createCallGraphHandler creates the handler function for callgraph_query.
func createCallGraphHandler(kb *graph.KnowledgeBase) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		operation, ok := argsMap["operation"].(string)
		if !ok || operation == "" {
			return mcp.NewToolResultError("operation parameter is required"), nil
		}

		var payload interface{}
		switch operation {
		case "top":
			limit := 20
			if raw, ok := argsMap["limit"].(float64); ok && raw > 0 {
				limit = int(raw)
			}
			payload = topPayload(kb, limit)

		case "common":
			payload = commonPayload(kb)

		case "report":
			target, ok := argsMap["target"].(string)
			if !ok || target == "" {
				return mcp.NewToolResultError("target parameter is required for 'report'"), nil
			}
			object, _ := argsMap["object"].(string)
			view, err := reportPayload(kb, target, object)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			payload = view

		default:
			return mcp.NewToolResultError(fmt.Sprintf("invalid operation: %s (must be one of: top, common, report)", operation)), nil
		}

		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
}

func viewOf(kb *graph.KnowledgeBase, id graph.FunctionID) functionView {
	key := kb.FunctionKeyOf(id)
	view := functionView{
		Name:         key.Name,
		Local:        key.Local,
		Instructions: kb.Instructions(id),
	}
	if key.Local {
		view.Object = kb.ObjectPath(key.Object)
	}
	return view
}

func topPayload(kb *graph.KnowledgeBase, limit int) []functionView {
	ranked := kb.TopByInstructions(limit)
	views := make([]functionView, 0, len(ranked))
	for _, entry := range ranked {
		views = append(views, viewOf(kb, entry.ID))
	}
	return views
}

func commonPayload(kb *graph.KnowledgeBase) []functionView {
	ids := kb.DefinedInAllObjects()
	views := make([]functionView, 0, len(ids))
	for _, id := range ids {
		views = append(views, viewOf(kb, id))
	}
	return views
}

func reportPayload(kb *graph.KnowledgeBase, target, object string) (*reportView, error) {
	id, err := ResolveFunction(kb, target, object)
	if err != nil {
		return nil, err
	}
	report, err := kb.Report(kb.FunctionKeyOf(id))
	if err != nil {
		return nil, err
	}

	view := &reportView{
		Function: viewOf(kb, report.ID),
		Objects:  report.Objects,
		Callers:  []functionView{},
		Callees:  []functionView{},
	}
	for _, caller := range report.Callers {
		view.Callers = append(view.Callers, viewOf(kb, caller))
	}
	for _, callee := range report.Callees {
		view.Callees = append(view.Callees, viewOf(kb, callee))
	}
	return view, nil
}

// ResolveFunction maps a raw name, plus an optional disambiguating object
// path, onto one interned identity. Fails when the name was never interned
// or when it is ambiguous across objects.
func ResolveFunction(kb *graph.KnowledgeBase, name, object string) (graph.FunctionID, error) {
	if object != "" {
		obj, ok := kb.LookupObject(object)
		if !ok {
			return 0, fmt.Errorf("object %q was never analyzed: %w", object, graph.ErrNotFound)
		}
		if id, ok := kb.LookupFunction(graph.LocalKey(obj, name)); ok {
			return id, nil
		}
		return 0, fmt.Errorf("function %q in %q: %w", name, object, graph.ErrNotFound)
	}

	ids := kb.FindByName(name)
	switch len(ids) {
	case 0:
		return 0, fmt.Errorf("function %q: %w", name, graph.ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return 0, errors.New("function " + name + " is ambiguous; pass the owning object path")
	}
}
