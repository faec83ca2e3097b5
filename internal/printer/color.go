package printer

import (
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// RunState colors a workflow run state: finished green, failed red, anything
// else yellow. The state is upper-cased.
func RunState(state string) string {
	s := strings.ToUpper(state)
	switch strings.ToLower(state) {
	case "finished":
		return green(s)
	case "failed":
		return red(s)
	}
	return yellow(s)
}

// ServiceStatus colors a service health value: OK green, anything else red.
func ServiceStatus(status string) string {
	if strings.EqualFold(status, "ok") {
		return green(status)
	}
	return red(status)
}

// Error formats err for the terminal as "Error: <message>".
func Error(msg string) string { return red("Error: ") + msg }

// Bold renders s in bold.
func Bold(s string) string { return bold(s) }

// Ref formats a resource reference as a bold [kind/name].
func Ref(kind, name string) string { return bold("[" + kind + "/" + name + "]") }
