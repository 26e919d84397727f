// CLAUDE:SUMMARY MCP tool surface: docmill_extract, docmill_detect, docmill_formats.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/docmill/sniff"
)

// RegisterMCP registers the extraction tools on an MCP server.
func (e *Extractor) RegisterMCP(srv *mcp.Server) {
	e.registerExtractTool(srv)
	e.registerDetectTool(srv)
	e.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addJSONTool wraps a handler returning a JSON-marshalable value. Handler
// errors become tool errors on the result, never protocol errors.
func addJSONTool(srv *mcp.Server, tool *mcp.Tool, handler func(context.Context, json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := handler(ctx, req.Params.Arguments)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

type pathReq struct {
	Path string `json:"path"`
}

func decodePathReq(raw json.RawMessage) (pathReq, error) {
	var r pathReq
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("invalid arguments: %w", err)
	}
	if r.Path == "" {
		return r, errors.New("invalid arguments: path is required")
	}
	return r, nil
}

// --- extract ---

// extractResp adds the detected format to the extraction result.
type extractResp struct {
	Format sniff.Format `json:"format"`
	Result
}

func (e *Extractor) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docmill_extract",
		Description: "Extract text from a document file (pdf, docx, odt, doc, xlsx, xls, ods, txt, images). Spreadsheets render as markdown; scanned documents go through OCR.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to extract"},
		}, []string{"path"}),
	}

	addJSONTool(srv, tool, func(ctx context.Context, raw json.RawMessage) (any, error) {
		r, err := decodePathReq(raw)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, err
		}
		format := sniff.Detect(data, r.Path)
		res, err := e.Extract(ctx, data, format, r.Path)
		if err != nil {
			return nil, err
		}
		return extractResp{Format: format, Result: res}, nil
	})
}

// --- detect ---

func (e *Extractor) registerDetectTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docmill_detect",
		Description: "Detect the format of a document file from its content (magic bytes, container inspection).",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to detect"},
		}, []string{"path"}),
	}

	addJSONTool(srv, tool, func(_ context.Context, raw json.RawMessage) (any, error) {
		r, err := decodePathReq(raw)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(r.Path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"format": string(sniff.Detect(data, r.Path))}, nil
	})
}

// --- formats ---

func (e *Extractor) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "docmill_formats",
		Description: "List all supported document formats.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	addJSONTool(srv, tool, func(_ context.Context, _ json.RawMessage) (any, error) {
		return map[string]any{"formats": SupportedFormats()}, nil
	})
}
