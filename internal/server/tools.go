package server

import "github.com/ironsheep/image-edit-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgs is the schema of tools without arguments.
func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// File Operations
		{
			Name:        "image_open",
			Description: "Open an image file (JPEG, PNG, BMP or GIF) for editing. Replaces the current image and clears the undo history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_save",
			Description: "Save the current image. Without a path, overwrites the file it was opened from or last saved to. The format follows the file extension (.jpg, .jpeg, .png, .bmp, .gif).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional destination path (Save As)",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100. Default 95",
					},
				},
			},
		},

		// Editing
		{
			Name:        "image_apply",
			Description: "Apply an editing operation to the current image. The previous image is kept for undo.",
			InputSchema: applySchema(),
		},
		{
			Name:        "image_undo",
			Description: "Undo the last editing operation. Reports restored=false when there is nothing to undo.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_redo",
			Description: "Redo the last undone operation. Reports restored=false when there is nothing to redo.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_reset",
			Description: "Restore the image as it was opened. The undo history is kept.",
			InputSchema: noArgs(),
		},

		// Inspection
		{
			Name:        "image_state",
			Description: "Report the current image size, channel count, file and undo/redo availability.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_preview",
			Description: "Return the current image as base64-encoded PNG for display.",
			InputSchema: noArgs(),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a pixel of the current image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "image_list_operations",
			Description: "List the operations accepted by image_apply with their arguments.",
			InputSchema: noArgs(),
		},
	}
}

// applySchema builds the image_apply schema from the operation registry so the
// two cannot drift apart.
func applySchema() map[string]interface{} {
	names := make([]string, 0, len(imaging.Operations))
	props := map[string]interface{}{}
	for _, op := range imaging.Operations {
		names = append(names, op.Name)
		for _, arg := range op.Args {
			if _, seen := props[arg.Name]; seen {
				continue
			}
			p := map[string]interface{}{
				"type":        arg.Type,
				"description": arg.Description,
			}
			if len(arg.Enum) > 0 {
				p["enum"] = arg.Enum
			}
			props[arg.Name] = p
		}
	}
	props["operation"] = map[string]interface{}{
		"type":        "string",
		"enum":        names,
		"description": "Operation to apply; see image_list_operations for its arguments",
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"operation"},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
