// Package types provides shared data structures for the terminal host.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - OpenTerminalRequest: Open a terminal view on a workspace directory
//   - WSMessage: Terminal stream control frames
//
// Example Usage:
//
//	result := &types.Result{
//	    Success: true,
//	    Data:    map[string]interface{}{"session_id": info.ID},
//	}
package types
