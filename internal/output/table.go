package output

import (
	"fmt"
	"strings"

	"aptmaint/internal/store"
)

// RenderOperationTable renders recent operations from the history journal,
// newest first, as an aligned table.
func RenderOperationTable(ops []*store.Operation) string {
	if len(ops) == 0 {
		return "No operations recorded yet.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-16s %-14s %-20s %-9s %s\n",
		"When", "Operation", "Argument", "Duration", "Result"))
	sb.WriteString(strings.Repeat("─", 70))
	sb.WriteString("\n")

	for _, op := range ops {
		arg := op.Argument
		if arg == "" {
			arg = "—"
		}

		var result string
		if op.ExitCode == 0 {
			result = colorize(colorGreen, "ok")
		} else {
			result = colorize(colorRed, fmt.Sprintf("exit %d", op.ExitCode))
		}

		sb.WriteString(fmt.Sprintf("%-16s %-14s %-20s %-9s %s\n",
			formatRelativeTime(op.StartedAt),
			op.Name,
			truncate(arg, 20),
			FormatDuration(op.Duration),
			result))
	}

	return sb.String()
}

// RenderSessionTable renders past sessions, newest first.
func RenderSessionTable(sessions []*store.Session) string {
	if len(sessions) == 0 {
		return "No sessions recorded yet.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-16s %-12s %-11s %s\n",
		"Started", "Mode", "Operations", "Log"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, sess := range sessions {
		sb.WriteString(fmt.Sprintf("%-16s %-12s %-11d %s\n",
			formatRelativeTime(sess.StartedAt),
			sess.Mode,
			sess.OperationCount,
			sess.LogPath))
	}

	return sb.String()
}
