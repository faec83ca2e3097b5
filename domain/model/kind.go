package model

import "fmt"

// Kind identifies a resource type served by the Flowdapt API.
type Kind int

const (
	KindWorkflow Kind = iota + 1
	KindWorkflowRun
	KindTriggerRule
	KindConfig
	KindPlugin
)

var kindNames = map[Kind]string{
	KindWorkflow:    "workflow",
	KindWorkflowRun: "workflow_run",
	KindTriggerRule: "trigger_rule",
	KindConfig:      "config",
	KindPlugin:      "plugin",
}

// Kinds returns all canonical kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindWorkflow, KindWorkflowRun, KindTriggerRule, KindConfig, KindPlugin}
}

// DefinitionKinds returns the kinds that can be declared in resource definition files.
func DefinitionKinds() []Kind {
	return []Kind{KindWorkflow, KindTriggerRule, KindConfig}
}

// String returns the canonical name (e.g. "workflow_run").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the canonical kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsDefinitionKind reports whether k can be applied from a definition file.
func (k Kind) IsDefinitionKind() bool {
	for _, d := range DefinitionKinds() {
		if d == k {
			return true
		}
	}
	return false
}

// ParseKind accepts canonical names only. Use Normalize for user input.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, &KindError{Input: s}
}

// Operation is one of the generic resource operations.
type Operation string

const (
	OperationGet    Operation = "get"
	OperationList   Operation = "list"
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Operations returns all operations.
func Operations() []Operation {
	return []Operation{OperationGet, OperationList, OperationCreate, OperationUpdate, OperationDelete}
}
