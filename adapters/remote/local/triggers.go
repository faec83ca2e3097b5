package local

import (
	"context"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

type triggers struct{ b *Backend }

func (t *triggers) GetTrigger(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindTriggerRule, version); err != nil {
		return nil, err
	}
	return t.b.get(ctx, model.KindTriggerRule, identifier)
}

func (t *triggers) ListTriggers(ctx context.Context, version string) (*value.List, error) {
	if err := checkVersion(model.KindTriggerRule, version); err != nil {
		return nil, err
	}
	return t.b.list(ctx, model.KindTriggerRule)
}

func (t *triggers) CreateTrigger(ctx context.Context, definition *value.Map, version string) (value.Value, error) {
	if err := checkVersion(model.KindTriggerRule, version); err != nil {
		return nil, err
	}
	return t.b.create(ctx, model.KindTriggerRule, definition)
}

func (t *triggers) UpdateTrigger(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error) {
	if err := checkVersion(model.KindTriggerRule, version); err != nil {
		return nil, err
	}
	return t.b.update(ctx, model.KindTriggerRule, identifier, definition)
}

func (t *triggers) DeleteTrigger(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindTriggerRule, version); err != nil {
		return nil, err
	}
	return t.b.delete(ctx, model.KindTriggerRule, identifier)
}

var _ domain.TriggerClient = (*triggers)(nil)
