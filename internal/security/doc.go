// Package security provides input validators shared by all tools.
//
// Validators:
//   - Path: prevents path traversal attacks (CWE-22) for file-reading tools
//   - Command: prevents command injection (CWE-78) for tools that shell out
//
// Validators are constructed once at startup and injected into toolsets.
// They hold no mutable state and are safe for concurrent use.
package security
