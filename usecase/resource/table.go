package resource

import (
	"context"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// Call invokes one remote operation with bound arguments.
type Call func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error)

// Binding is a supported (kind, operation) pair.
type Binding struct {
	Signature Signature
	Call      Call
}

// Key addresses a Binding.
type Key struct {
	Kind      model.Kind
	Operation model.Operation
}

// Table maps (kind, operation) to its binding. A missing entry means the kind
// does not support the operation.
type Table map[Key]*Binding

// Lookup returns the binding for kind and op.
func (t Table) Lookup(kind model.Kind, op model.Operation) (*Binding, error) {
	if !kind.Valid() {
		return nil, &model.KindError{Input: kind.String()}
	}
	b, ok := t[Key{Kind: kind, Operation: op}]
	if !ok || b == nil {
		return nil, &model.OperationError{Kind: kind, Operation: op}
	}
	return b, nil
}

var (
	pIdentifier   = Param{Name: "identifier", Type: ParamString}
	pDefinition   = Param{Name: "definition", Type: ParamMap}
	pVersion      = Param{Name: "version", KeywordOnly: true, Type: ParamString}
	sigIdentifier = Signature{pIdentifier, pVersion}
	sigList       = Signature{pVersion}
	sigCreate     = Signature{pDefinition, pVersion}
	sigUpdate     = Signature{pIdentifier, pDefinition, pVersion}
	sigListRuns   = Signature{
		{Name: "identifier", Type: ParamString, Optional: true, Default: value.Null{}},
		pVersion,
		{Name: "limit", KeywordOnly: true, Type: ParamInt, Optional: true, Default: value.Number("10")},
	}
)

func list(l *value.List, err error) (value.Value, error) {
	if err != nil {
		return nil, err
	}
	if l == nil {
		return value.NewList(), nil
	}
	return l, nil
}

// DefaultTable returns the operations supported by the Flowdapt API.
func DefaultTable() Table {
	return Table{
		// workflow
		{model.KindWorkflow, model.OperationGet}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Workflows.GetWorkflow(ctx, b.String("identifier"), b.String("version"))
		}},
		{model.KindWorkflow, model.OperationList}: {sigList, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return list(r.Workflows.ListWorkflows(ctx, b.String("version")))
		}},
		{model.KindWorkflow, model.OperationCreate}: {sigCreate, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Workflows.CreateWorkflow(ctx, b.Map("definition"), b.String("version"))
		}},
		{model.KindWorkflow, model.OperationUpdate}: {sigUpdate, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Workflows.UpdateWorkflow(ctx, b.String("identifier"), b.Map("definition"), b.String("version"))
		}},
		{model.KindWorkflow, model.OperationDelete}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Workflows.DeleteWorkflow(ctx, b.String("identifier"), b.String("version"))
		}},

		// workflow_run
		{model.KindWorkflowRun, model.OperationGet}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Workflows.GetWorkflowRun(ctx, b.String("identifier"), b.String("version"))
		}},
		{model.KindWorkflowRun, model.OperationList}: {sigListRuns, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return list(r.Workflows.ListWorkflowRuns(ctx, b.String("identifier"), b.Int("limit"), b.String("version")))
		}},
		{model.KindWorkflowRun, model.OperationDelete}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Workflows.DeleteWorkflowRun(ctx, b.String("identifier"), b.String("version"))
		}},

		// trigger_rule
		{model.KindTriggerRule, model.OperationGet}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Triggers.GetTrigger(ctx, b.String("identifier"), b.String("version"))
		}},
		{model.KindTriggerRule, model.OperationList}: {sigList, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return list(r.Triggers.ListTriggers(ctx, b.String("version")))
		}},
		{model.KindTriggerRule, model.OperationCreate}: {sigCreate, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Triggers.CreateTrigger(ctx, b.Map("definition"), b.String("version"))
		}},
		{model.KindTriggerRule, model.OperationUpdate}: {sigUpdate, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Triggers.UpdateTrigger(ctx, b.String("identifier"), b.Map("definition"), b.String("version"))
		}},
		{model.KindTriggerRule, model.OperationDelete}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Triggers.DeleteTrigger(ctx, b.String("identifier"), b.String("version"))
		}},

		// config
		{model.KindConfig, model.OperationGet}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Configs.GetConfig(ctx, b.String("identifier"), b.String("version"))
		}},
		{model.KindConfig, model.OperationList}: {sigList, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return list(r.Configs.ListConfigs(ctx, b.String("version")))
		}},
		{model.KindConfig, model.OperationCreate}: {sigCreate, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Configs.CreateConfig(ctx, b.Map("definition"), b.String("version"))
		}},
		{model.KindConfig, model.OperationUpdate}: {sigUpdate, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Configs.UpdateConfig(ctx, b.String("identifier"), b.Map("definition"), b.String("version"))
		}},
		{model.KindConfig, model.OperationDelete}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Configs.DeleteConfig(ctx, b.String("identifier"), b.String("version"))
		}},

		// plugin
		{model.KindPlugin, model.OperationGet}: {sigIdentifier, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return r.Plugins.GetPlugin(ctx, b.String("identifier"), b.String("version"))
		}},
		{model.KindPlugin, model.OperationList}: {sigList, func(ctx context.Context, r *domain.Remote, b *Bound) (value.Value, error) {
			return list(r.Plugins.ListPlugins(ctx, b.String("version")))
		}},
	}
}
