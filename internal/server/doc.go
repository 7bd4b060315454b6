// Package server implements the MCP (Model Context Protocol) server for image editing.
//
// This package provides a JSON-RPC 2.0 server that exposes one editing session
// through the MCP protocol: open an image, apply operations, undo and redo
// them, and save the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// File Operations:
//   - image_open: Decode a file and start a new session on it
//   - image_save: Encode the current image (Save / Save As)
//
// Editing:
//   - image_apply: Apply grayscale, blur, edge_detection, brightness,
//     contrast, rotate, flip or resize
//   - image_undo, image_redo: Walk the linear history
//   - image_reset: Restore the image as opened
//
// Inspection:
//   - image_state: Size, channels, file and history availability
//   - image_preview: Current image as base64 PNG
//   - image_sample_color: Color at a pixel
//   - image_list_operations: Operation names and arguments
//
// # Image Caching
//
// Decoded files are cached by path so reopening an unchanged file skips the
// decode. Saving to a path evicts it.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Failed edits leave the image and history unchanged.
package server
