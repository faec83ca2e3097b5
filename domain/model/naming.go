package model

import "github.com/emergentmethods/flowctl/domain/value"

// ResourceName returns the name of a resource document. Workflows, trigger
// rules and configs carry it under metadata.name; runs and plugins at the top
// level. It returns "" when the document has no name.
func ResourceName(kind Kind, doc value.Value) string {
	switch kind {
	case KindWorkflow, KindTriggerRule, KindConfig:
		return value.PathString(doc, "metadata", "name")
	case KindWorkflowRun, KindPlugin:
		return value.PathString(doc, "name")
	}
	return ""
}

// ResourceUID returns the server assigned identifier of a resource document.
func ResourceUID(kind Kind, doc value.Value) string {
	switch kind {
	case KindWorkflow, KindTriggerRule, KindConfig:
		return value.PathString(doc, "metadata", "uid")
	case KindWorkflowRun:
		return value.PathString(doc, "uid")
	}
	return ""
}
