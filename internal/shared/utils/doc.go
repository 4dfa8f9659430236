// Package utils provides input validation shared by the HTTP and WebSocket layers.
package utils
