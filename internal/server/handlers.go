package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ironsheep/image-edit-mcp/internal/editor"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_open", "image_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.config.Debug {
			log.Printf("tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// File Operations
	case "image_open":
		return s.handleImageOpen(args)
	case "image_save":
		return s.handleImageSave(args)

	// Editing
	case "image_apply":
		return s.handleImageApply(args)
	case "image_undo":
		return s.handleImageUndo()
	case "image_redo":
		return s.handleImageRedo()
	case "image_reset":
		return s.handleImageReset()

	// Inspection
	case "image_state":
		return s.editor.State(), nil
	case "image_preview":
		return s.handleImagePreview()
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_list_operations":
		return listOperations(), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating absent arguments as empty.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === File Operation Handlers ===

type imageOpenArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageOpen(args json.RawMessage) (interface{}, error) {
	var a imageOpenArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	buf, format, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	prev := s.editor.Path()
	if err := s.editor.Open(buf, a.Path, format); err != nil {
		return nil, err
	}
	// Only the open file stays cached.
	if prev != "" && prev != a.Path {
		s.cache.Evict(prev)
	}
	return s.editor.State(), nil
}

type imageSaveArgs struct {
	Path    string `json:"path"`
	Quality int    `json:"quality"`
}

// SaveResult reports where the image was written.
type SaveResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	path := a.Path
	if path == "" {
		path = s.editor.Path()
	}
	if path == "" {
		return nil, errors.New("image has no file yet: pass a path to save it")
	}

	var result SaveResult
	err := s.editor.View(func(b *imaging.Buffer) error {
		if err := imaging.SaveFile(path, b, a.Quality); err != nil {
			return err
		}
		result = SaveResult{Path: path, Format: imaging.FormatFromPath(path), Width: b.Width, Height: b.Height}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prev := s.editor.Path()
	s.cache.Evict(path)
	if prev != path {
		s.cache.Evict(prev)
	}
	s.editor.SetPath(path, result.Format)
	return result, nil
}

// === Editing Handlers ===

type imageApplyArgs struct {
	Operation string `json:"operation"`
	imaging.Params
}

func (s *Server) handleImageApply(args json.RawMessage) (interface{}, error) {
	var a imageApplyArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.editor.Apply(a.Operation, a.Params); err != nil {
		return nil, err
	}
	return s.editor.State(), nil
}

// HistoryResult reports the outcome of an undo or redo.
type HistoryResult struct {
	Restored bool         `json:"restored"`
	State    editor.State `json:"state"`
}

func (s *Server) handleImageUndo() (interface{}, error) {
	restored := s.editor.Undo()
	return HistoryResult{Restored: restored, State: s.editor.State()}, nil
}

func (s *Server) handleImageRedo() (interface{}, error) {
	restored := s.editor.Redo()
	return HistoryResult{Restored: restored, State: s.editor.State()}, nil
}

func (s *Server) handleImageReset() (interface{}, error) {
	if err := s.editor.Reset(); err != nil {
		return nil, err
	}
	return s.editor.State(), nil
}

// === Inspection Handlers ===

func (s *Server) handleImagePreview() (interface{}, error) {
	var result *imaging.PreviewResult
	err := s.editor.View(func(b *imaging.Buffer) error {
		var err error
		result, err = imaging.Preview(b)
		return err
	})
	return result, err
}

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	var result *imaging.ColorResult
	err := s.editor.View(func(b *imaging.Buffer) error {
		var err error
		result, err = imaging.SampleColor(b, a.X, a.Y)
		return err
	})
	return result, err
}

// OperationInfo describes one image_apply operation.
type OperationInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Args        []OperationArgDoc `json:"args,omitempty"`
}

// OperationArgDoc describes one operation argument.
type OperationArgDoc struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Default     string   `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description"`
}

func listOperations() []OperationInfo {
	ops := make([]OperationInfo, 0, len(imaging.Operations))
	for _, op := range imaging.Operations {
		info := OperationInfo{Name: op.Name, Description: op.Description}
		for _, arg := range op.Args {
			info.Args = append(info.Args, OperationArgDoc{
				Name:        arg.Name,
				Type:        arg.Type,
				Required:    arg.Required,
				Default:     arg.Default,
				Enum:        arg.Enum,
				Description: arg.Description,
			})
		}
		ops = append(ops, info)
	}
	return ops
}
