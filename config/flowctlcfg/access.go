package flowctlcfg

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/cliargs"
)

// Tree returns the serializable configuration as a value tree.
func (c *Configuration) Tree() (*value.Map, error) {
	data, err := c.YAML()
	if err != nil {
		return nil, err
	}
	v, err := value.DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*value.Map)
	if !ok {
		return value.NewMap(), nil
	}
	return m, nil
}

// fromTree replaces the serializable fields with the content of tree. Keys
// unknown to Configuration are dropped.
func (c *Configuration) fromTree(tree *value.Map) error {
	data, err := value.EncodeYAML(tree)
	if err != nil {
		return err
	}
	next := Configuration{AppDir: c.AppDir, ConfigFile: c.ConfigFile, DevMode: c.DevMode}
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	*c = next
	return nil
}

// typed converts raw for key: it stays a string where the current value is a
// string, and is coerced to a boolean or number otherwise.
func typed(base *value.Map, key, raw string) value.Value {
	if cur, ok, err := cliargs.Lookup(base, key); err == nil && ok {
		if _, isString := cur.(value.String); isString {
			return value.String(raw)
		}
	}
	return value.Coerce(value.String(raw))
}

// GetByKey reads the value at a key path such as servers[0].url.
func (c *Configuration) GetByKey(key string) (value.Value, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	v, ok, err := cliargs.Lookup(tree, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

// SetByKey stores raw at a key path. The configuration file is not written;
// call Save.
func (c *Configuration) SetByKey(key, raw string) error {
	tree, err := c.Tree()
	if err != nil {
		return err
	}
	if err := cliargs.SetKey(tree, key, typed(tree, key, raw)); err != nil {
		return err
	}
	return c.fromTree(tree)
}
