package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID      string                 `json:"tool_id" binding:"required"`
	Params      map[string]interface{} `json:"params" binding:"required"`
	WorkspaceID *string                `json:"workspace_id,omitempty"`
}

// OpenWorkspaceRequest opens a workspace rooted at a directory
type OpenWorkspaceRequest struct {
	Root string `json:"root" binding:"required"`
}

// OpenTerminalRequest asks for a terminal view on a directory of a workspace.
// An empty Dir means the workspace root.
type OpenTerminalRequest struct {
	Dir string `json:"dir"`
}

// WSMessage represents a control frame on a terminal stream.
// Output bytes travel as binary frames; everything else is JSON.
type WSMessage struct {
	Type  string `json:"type"` // "input", "resize", "refresh", "ping"
	Input string `json:"input,omitempty"`
	Cols  int    `json:"cols,omitempty"`
	Rows  int    `json:"rows,omitempty"`
}
