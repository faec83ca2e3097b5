package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emergentmethods/flowctl/adapters/remote/inmem"
	"github.com/emergentmethods/flowctl/adapters/remote/local"
	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

// countingTable wraps every call of the default table with a counter.
func countingTable(calls *int) Table {
	t := DefaultTable()
	for k, b := range t {
		call := b.Call
		t[k] = &Binding{Signature: b.Signature, Call: func(ctx context.Context, r *domain.Remote, bound *Bound) (value.Value, error) {
			*calls++
			return call(ctx, r, bound)
		}}
	}
	return t
}

func newUseCase(t *testing.T) (*UseCase, *int) {
	t.Helper()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	backend := local.New(inmem.NewStore(), local.Options{Now: func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}})
	calls := new(int)
	return &UseCase{Remote: backend.Remote(), Table: countingTable(calls)}, calls
}

func mapOf(t *testing.T, s string) *value.Map {
	t.Helper()
	v, err := value.DecodeJSON([]byte(s))
	require.NoError(t, err)
	return v.(*value.Map)
}

func TestUnsupportedOperations(t *testing.T) {
	u, calls := newUseCase(t)
	cases := []struct {
		kind model.Kind
		op   model.Operation
	}{
		{model.KindWorkflowRun, model.OperationCreate},
		{model.KindWorkflowRun, model.OperationUpdate},
		{model.KindPlugin, model.OperationCreate},
		{model.KindPlugin, model.OperationUpdate},
		{model.KindPlugin, model.OperationDelete},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String()+"/"+string(tc.op), func(t *testing.T) {
			_, err := u.Dispatch(context.Background(), &Request{Kind: tc.kind, Operation: tc.op, Identifier: "x", Payload: value.NewMap()})
			assert.ErrorIs(t, err, model.ErrUnsupportedOperation)
		})
	}
	assert.Zero(t, *calls)
}

func TestEveryKindSupportsGetAndList(t *testing.T) {
	table := DefaultTable()
	for _, k := range model.Kinds() {
		for _, op := range []model.Operation{model.OperationGet, model.OperationList} {
			_, err := table.Lookup(k, op)
			assert.NoError(t, err, "%s %s", k, op)
		}
	}
	for _, k := range model.DefinitionKinds() {
		for _, op := range model.Operations() {
			_, err := table.Lookup(k, op)
			assert.NoError(t, err, "%s %s", k, op)
		}
	}
}

func TestUnknownKind(t *testing.T) {
	u, _ := newUseCase(t)
	_, err := u.Get(context.Background(), &GetInput{Kind: "flows", Identifier: "x"})
	assert.ErrorIs(t, err, model.ErrUnknownKind)

	_, err = u.Dispatch(context.Background(), &Request{Kind: model.Kind(99), Operation: model.OperationGet})
	assert.ErrorIs(t, err, model.ErrUnknownKind)
}

func TestBindingFailuresSendNothing(t *testing.T) {
	u, calls := newUseCase(t)
	ctx := context.Background()
	cases := []struct {
		name   string
		req    *Request
		reason string
	}{
		{
			name:   "missing identifier",
			req:    &Request{Kind: model.KindWorkflow, Operation: model.OperationGet},
			reason: "missing a required argument: 'identifier'",
		},
		{
			name:   "extra positional",
			req:    &Request{Kind: model.KindWorkflow, Operation: model.OperationGet, Identifier: "wf", Args: []string{"extra"}},
			reason: "takes 1 positional arguments but 2 were given",
		},
		{
			name:   "unknown keyword",
			req:    &Request{Kind: model.KindConfig, Operation: model.OperationList, Kwargs: value.NewMap().Set("color", value.String("red"))},
			reason: "got an unexpected keyword argument 'color'",
		},
		{
			name:   "keyword repeats positional",
			req:    &Request{Kind: model.KindTriggerRule, Operation: model.OperationDelete, Identifier: "t", Kwargs: value.NewMap().Set("identifier", value.String("t"))},
			reason: "got multiple values for argument 'identifier'",
		},
		{
			name:   "limit not an integer",
			req:    &Request{Kind: model.KindWorkflowRun, Operation: model.OperationList, Kwargs: value.NewMap().Set("limit", value.String("many"))},
			reason: "argument 'limit': expected integer, got \"many\"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := u.Dispatch(ctx, tc.req)
			require.ErrorIs(t, err, model.ErrArgumentBinding)
			var be *model.BindingError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tc.reason, be.Reason)
			assert.Equal(t, tc.req.Kind, be.Kind)
		})
	}
	assert.Zero(t, *calls)
}

func TestUnsupportedVersionSendsNothing(t *testing.T) {
	u, calls := newUseCase(t)
	_, err := u.Get(context.Background(), &GetInput{Kind: "workflow", Identifier: "wf", Version: "v2"})
	assert.ErrorIs(t, err, model.ErrUnsupportedVersion)
	assert.Zero(t, *calls)
}

func TestVersionKeyword(t *testing.T) {
	u, calls := newUseCase(t)
	ctx := context.Background()
	version := func(v value.Value) *value.Map { return value.NewMap().Set("version", v) }

	_, err := u.List(ctx, &ListInput{Kind: "configs", Kwargs: version(value.String("v1alpha1"))})
	require.NoError(t, err)
	require.Equal(t, 1, *calls)

	_, err = u.List(ctx, &ListInput{Kind: "configs", Version: "v1alpha1", Kwargs: version(value.String("v1alpha1"))})
	require.NoError(t, err)
	require.Equal(t, 2, *calls)

	_, err = u.List(ctx, &ListInput{Kind: "configs", Kwargs: version(value.String("bogus"))})
	assert.ErrorIs(t, err, model.ErrUnsupportedVersion)

	_, err = u.Delete(ctx, &DeleteInput{Kind: "workflow", Identifier: "wf", Kwargs: version(value.String("v9"))})
	assert.ErrorIs(t, err, model.ErrUnsupportedVersion)

	_, err = u.Get(ctx, &GetInput{Kind: "workflow", Identifier: "wf", Version: "v1alpha1", Kwargs: version(value.String("v2"))})
	var be *model.BindingError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, model.KindWorkflow, be.Kind)
	assert.Contains(t, be.Reason, "conflicting versions")

	_, err = u.Get(ctx, &GetInput{Kind: "workflow", Identifier: "wf", Kwargs: version(value.NewList(value.String("a"), value.String("b")))})
	assert.ErrorIs(t, err, model.ErrArgumentBinding)

	kwargs := version(value.String("v1alpha1"))
	_, err = u.List(ctx, &ListInput{Kind: "configs", Kwargs: kwargs})
	require.NoError(t, err)
	_, still := kwargs.Get("version")
	assert.True(t, still)
	assert.Equal(t, 3, *calls)
}

func TestCreateAndUpdateBindExtraArguments(t *testing.T) {
	u, calls := newUseCase(t)
	ctx := context.Background()
	def := mapOf(t, `{"metadata":{"name":"wf"}}`)

	_, err := u.Create(ctx, &CreateInput{Kind: "workflow", Definition: def, Kwargs: value.NewMap().Set("force", value.String("yes"))})
	assert.ErrorIs(t, err, model.ErrArgumentBinding)
	_, err = u.Create(ctx, &CreateInput{Kind: "workflow", Definition: def, Args: []string{"extra"}})
	assert.ErrorIs(t, err, model.ErrArgumentBinding)
	_, err = u.Update(ctx, &UpdateInput{Kind: "workflow", Identifier: "wf", Definition: def, Kwargs: value.NewMap().Set("force", value.String("yes"))})
	assert.ErrorIs(t, err, model.ErrArgumentBinding)
	assert.Zero(t, *calls)

	_, err = u.Create(ctx, &CreateInput{Kind: "workflow", Definition: def, Kwargs: value.NewMap().Set("version", value.String("v1alpha1"))})
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestNotFoundIsNotAnError(t *testing.T) {
	u, calls := newUseCase(t)
	ctx := context.Background()

	got, err := u.Get(ctx, &GetInput{Kind: "workflow", Identifier: "missing"})
	require.NoError(t, err)
	assert.False(t, got.Found())

	del, err := u.Delete(ctx, &DeleteInput{Kind: "trigger", Identifier: "missing"})
	require.NoError(t, err)
	assert.Nil(t, del.Resource)
	assert.Equal(t, "missing", del.Name("missing"))

	_, err = u.Update(ctx, &UpdateInput{Kind: "config", Identifier: "missing", Definition: mapOf(t, `{"metadata":{"name":"missing"}}`)})
	assert.ErrorIs(t, err, model.ErrRemoteNotFound)
	assert.Positive(t, *calls)
}

func TestCreateGetListDelete(t *testing.T) {
	u, _ := newUseCase(t)
	ctx := context.Background()

	created, err := u.Create(ctx, &CreateInput{Kind: "triggers", Definition: mapOf(t, `{"metadata":{"name":"nightly"},"spec":{"type":"schedule"}}`)})
	require.NoError(t, err)
	assert.Equal(t, model.KindTriggerRule, created.Kind)

	got, err := u.Get(ctx, &GetInput{Kind: "trigger_rule", Identifier: "nightly"})
	require.NoError(t, err)
	require.True(t, got.Found())
	assert.Equal(t, "schedule", value.PathString(got.Resource, "spec", "type"))

	list, err := u.List(ctx, &ListInput{Kind: "triggers"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Resources.Len())

	del, err := u.Delete(ctx, &DeleteInput{Kind: "trigger", Identifier: "nightly"})
	require.NoError(t, err)
	assert.Equal(t, "nightly", del.Name("x"))

	list, err = u.List(ctx, &ListInput{Kind: "triggers"})
	require.NoError(t, err)
	assert.Zero(t, list.Resources.Len())
}

func TestPatch(t *testing.T) {
	u, _ := newUseCase(t)
	ctx := context.Background()
	_, err := u.Create(ctx, &CreateInput{Kind: "config", Definition: mapOf(t, `{"metadata":{"name":"c"},"spec":{"selector":{"type":"workflow"},"data":{"a":1,"b":"x"}}}`)})
	require.NoError(t, err)

	out, err := u.Patch(ctx, &PatchInput{
		Kind:       "config",
		Identifier: "c",
		Patch:      mapOf(t, `{"spec":{"data":{"b":"y","enabled":"true","n":"3","zip":"007"}}}`),
	})
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.Equal(t, "c", out.Name)

	data, ok := value.Path(out.Resource, "spec", "data")
	require.True(t, ok)
	assert.True(t, value.Equal(mapOf(t, `{"a":1,"b":"y","enabled":true,"n":3,"zip":"007"}`), data))
	assert.Equal(t, "workflow", value.PathString(out.Resource, "spec", "selector", "type"))

	missing, err := u.Patch(ctx, &PatchInput{Kind: "config", Identifier: "nope", Patch: value.NewMap()})
	require.NoError(t, err)
	assert.False(t, missing.Found)
}

func TestApplyAndDeleteDefinitions(t *testing.T) {
	u, _ := newUseCase(t)
	ctx := context.Background()
	defs := []*model.Definition{
		{Kind: model.KindWorkflow, Body: mapOf(t, `{"kind":"workflow","metadata":{"name":"wf"},"spec":{}}`), Source: "wf.yaml"},
		{Kind: model.KindConfig, Body: mapOf(t, `{"kind":"config","spec":{}}`), Source: "noname.yaml"},
	}

	out, err := u.Apply(ctx, &DefinitionsInput{Definitions: defs})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, ActionCreated, out.Results[0].Action)
	assert.Equal(t, ActionFailed, out.Results[1].Action)
	assert.ErrorIs(t, out.Results[1].Err, ErrDefinitionName)
	assert.Error(t, out.Err())

	out, err = u.Apply(ctx, &DefinitionsInput{Definitions: defs[:1]})
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, out.Results[0].Action)
	assert.NoError(t, out.Err())

	out, err = u.DeleteDefinitions(ctx, &DefinitionsInput{Definitions: defs[:1]})
	require.NoError(t, err)
	assert.Equal(t, ActionDeleted, out.Results[0].Action)
	got, err := u.Get(ctx, &GetInput{Kind: "workflow", Identifier: "wf"})
	require.NoError(t, err)
	assert.False(t, got.Found())
}

func TestRun(t *testing.T) {
	u, _ := newUseCase(t)
	ctx := context.Background()
	_, err := u.Create(ctx, &CreateInput{Kind: "workflow", Definition: mapOf(t, `{"metadata":{"name":"wf"}}`)})
	require.NoError(t, err)

	out, err := u.Run(ctx, &RunInput{Identifier: "wf", Input: mapOf(t, `{"n":"2"}`), Wait: true})
	require.NoError(t, err)
	require.True(t, out.Found)
	assert.True(t, out.Finished())
	assert.Equal(t, "wf", out.Workflow)
	assert.True(t, value.Equal(mapOf(t, `{"n":2}`), out.Result()))

	runs, err := u.List(ctx, &ListInput{Kind: "runs", Identifier: "wf", Kwargs: value.NewMap().Set("limit", value.String("1"))})
	require.NoError(t, err)
	require.Equal(t, 1, runs.Resources.Len())
	assert.Equal(t, out.Name(), model.ResourceName(model.KindWorkflowRun, runs.Resources.Index(0)))

	missing, err := u.Run(ctx, &RunInput{Identifier: "nope"})
	require.NoError(t, err)
	assert.False(t, missing.Found)
}

func TestSignatureString(t *testing.T) {
	assert.Equal(t, "(identifier, *, version)", sigIdentifier.String())
	assert.Equal(t, "(identifier=null, *, version, limit=10)", sigListRuns.String())
}
