package telemetry

import "time"

// CLI

var cliCommandName string
var cliStartTime time.Time

func CLICommandStart(commandName string) {
	cliCommandName = commandName
	cliStartTime = time.Now()
}

func CLICommandEnd() {
	if cliCommandName == "" {
		return
	}
	durationMs := time.Since(cliStartTime).Milliseconds()
	send("cli:command_run", "command_name", cliCommandName, "duration_ms", durationMs)
}

// TUI

var tuiStartTime time.Time

func TUISessionStart() {
	tuiStartTime = time.Now()
	send("tui:session_start")
}

func TUISessionEnd() {
	durationMs := time.Since(tuiStartTime).Milliseconds()
	send("tui:session_end", "duration_ms", durationMs)
}

// TUIRefreshTriggered records a refresh or load-more handler run.
func TUIRefreshTriggered(direction string) {
	send("tui:refresh_triggered", "direction", direction)
}

func TUIActionExecute(actionName string) {
	send("tui:action_execute", "action_name", actionName)
}

// MCP

var mcpStartTime time.Time

func MCPSessionStart() {
	mcpStartTime = time.Now()
	send("mcp:session_start")
}

func MCPSessionEnd() {
	durationMs := time.Since(mcpStartTime).Milliseconds()
	send("mcp:session_end", "duration_ms", durationMs)
}

func MCPToolCall(toolName string) {
	send("mcp:tool_call", "tool_name", toolName)
}
