package local

import (
	"context"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
)

type configs struct{ b *Backend }

func (c *configs) GetConfig(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindConfig, version); err != nil {
		return nil, err
	}
	return c.b.get(ctx, model.KindConfig, identifier)
}

func (c *configs) ListConfigs(ctx context.Context, version string) (*value.List, error) {
	if err := checkVersion(model.KindConfig, version); err != nil {
		return nil, err
	}
	return c.b.list(ctx, model.KindConfig)
}

func (c *configs) CreateConfig(ctx context.Context, definition *value.Map, version string) (value.Value, error) {
	if err := checkVersion(model.KindConfig, version); err != nil {
		return nil, err
	}
	return c.b.create(ctx, model.KindConfig, definition)
}

func (c *configs) UpdateConfig(ctx context.Context, identifier string, definition *value.Map, version string) (value.Value, error) {
	if err := checkVersion(model.KindConfig, version); err != nil {
		return nil, err
	}
	return c.b.update(ctx, model.KindConfig, identifier, definition)
}

func (c *configs) DeleteConfig(ctx context.Context, identifier, version string) (value.Value, error) {
	if err := checkVersion(model.KindConfig, version); err != nil {
		return nil, err
	}
	return c.b.delete(ctx, model.KindConfig, identifier)
}

var _ domain.ConfigClient = (*configs)(nil)
