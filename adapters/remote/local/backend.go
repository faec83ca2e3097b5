// Package local implements the remote clients on top of a DocumentStore. It
// behaves like a small Flowdapt server living inside the process and backs the
// memory: and sqlite: server URLs.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/emergentmethods/flowctl/domain"
	"github.com/emergentmethods/flowctl/domain/model"
	"github.com/emergentmethods/flowctl/domain/value"
	"github.com/emergentmethods/flowctl/internal/naming"
)

// Options tune a Backend.
type Options struct {
	// Name is reported by the status endpoint.
	Name string
	// ServerVersion is reported by ping.
	ServerVersion string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Backend serves all resource kinds from one store.
type Backend struct {
	store domain.DocumentStore
	opts  Options
}

// New returns a Backend over store.
func New(store domain.DocumentStore, opts Options) *Backend {
	if opts.Name == "" {
		opts.Name = "flowdapt-sandbox"
	}
	if opts.ServerVersion == "" {
		opts.ServerVersion = "sandbox"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Backend{store: store, opts: opts}
}

// Remote exposes the backend through the domain clients.
func (b *Backend) Remote() *domain.Remote {
	return &domain.Remote{
		Workflows: b,
		Triggers:  &triggers{b},
		Configs:   &configs{b},
		Plugins:   b,
		System:    b,
		Closer:    b.store,
	}
}

func (b *Backend) now() string { return b.opts.Now().UTC().Format(time.RFC3339Nano) }

func remoteError(status int, format string, a ...any) error {
	return &model.RemoteError{StatusCode: status, Message: fmt.Sprintf(format, a...)}
}

// find resolves identifier as a name first, then as a uid.
func (b *Backend) find(ctx context.Context, kind model.Kind, identifier string) (*model.Document, error) {
	d, err := b.store.GetByName(ctx, kind, identifier)
	if errors.Is(err, model.ErrDocumentNotFound) {
		d, err = b.store.Get(ctx, kind, identifier)
	}
	if errors.Is(err, model.ErrDocumentNotFound) {
		return nil, model.NewNotFoundError(kind, identifier)
	}
	return d, err
}

func (b *Backend) get(ctx context.Context, kind model.Kind, identifier string) (value.Value, error) {
	d, err := b.find(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	return d.Body, nil
}

func (b *Backend) list(ctx context.Context, kind model.Kind) (*value.List, error) {
	docs, err := b.store.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := value.NewList()
	for _, d := range docs {
		out.Append(d.Body)
	}
	return out, nil
}

func metadata(body *value.Map) *value.Map {
	v, _ := body.Get("metadata")
	m, ok := v.(*value.Map)
	if !ok || m == nil {
		m = value.NewMap()
		body.Set("metadata", m)
	}
	return m
}

// create stores a definition of a metadata-named kind.
func (b *Backend) create(ctx context.Context, kind model.Kind, definition *value.Map) (value.Value, error) {
	body := definition.Clone()
	if body == nil {
		body = value.NewMap()
	}
	name := model.ResourceName(kind, body)
	if name == "" {
		return nil, remoteError(http.StatusUnprocessableEntity, "%s: metadata.name is required", kind)
	}
	if err := naming.ValidateResourceName(kind.String(), name); err != nil {
		return nil, remoteError(http.StatusUnprocessableEntity, "%v", err)
	}
	id := uuid.NewString()
	ts := b.now()
	meta := metadata(body)
	meta.Set("uid", value.String(id))
	meta.Set("created_at", value.String(ts))
	meta.Set("updated_at", value.String(ts))
	if _, ok := body.Get("kind"); !ok {
		body.Set("kind", value.String(kind.String()))
	}

	now := b.opts.Now()
	d := &model.Document{ID: id, Kind: kind, Name: name, Body: body, CreatedAt: now, UpdatedAt: now}
	if err := b.store.Create(ctx, d); err != nil {
		if errors.Is(err, model.ErrDocumentExists) {
			return nil, remoteError(http.StatusConflict, "%s %q already exists", kind, name)
		}
		return nil, err
	}
	return body, nil
}

func (b *Backend) update(ctx context.Context, kind model.Kind, identifier string, definition *value.Map) (value.Value, error) {
	d, err := b.find(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	body := definition.Clone()
	if body == nil {
		body = value.NewMap()
	}
	name := model.ResourceName(kind, body)
	if name == "" {
		name = d.Name
		metadata(body).Set("name", value.String(name))
	} else if err := naming.ValidateResourceName(kind.String(), name); err != nil {
		return nil, remoteError(http.StatusUnprocessableEntity, "%v", err)
	}
	meta := metadata(body)
	meta.Set("uid", value.String(d.ID))
	meta.Set("created_at", value.String(value.PathString(d.Body, "metadata", "created_at")))
	meta.Set("updated_at", value.String(b.now()))
	if _, ok := body.Get("kind"); !ok {
		body.Set("kind", value.String(kind.String()))
	}

	d.Name, d.Body, d.UpdatedAt = name, body, b.opts.Now()
	if err := b.store.Update(ctx, d); err != nil {
		if errors.Is(err, model.ErrDocumentExists) {
			return nil, remoteError(http.StatusConflict, "%s %q already exists", kind, name)
		}
		return nil, err
	}
	return body, nil
}

func (b *Backend) delete(ctx context.Context, kind model.Kind, identifier string) (value.Value, error) {
	d, err := b.find(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	if err := b.store.Delete(ctx, kind, d.ID); err != nil {
		if errors.Is(err, model.ErrDocumentNotFound) {
			return nil, model.NewNotFoundError(kind, identifier)
		}
		return nil, err
	}
	return d.Body, nil
}

// checkVersion rejects versions the sandbox does not serve.
func checkVersion(kind model.Kind, version string) error {
	if version == "" {
		return nil
	}
	if _, err := model.ResolveVersion(kind, version); err != nil {
		return remoteError(http.StatusBadRequest, "%v", err)
	}
	return nil
}

// PutPlugin registers a plugin document, replacing one with the same name.
func (b *Backend) PutPlugin(ctx context.Context, plugin *value.Map) error {
	name := model.ResourceName(model.KindPlugin, plugin)
	if strings.TrimSpace(name) == "" {
		return errors.New("plugin name is required")
	}
	now := b.opts.Now()
	if d, err := b.store.GetByName(ctx, model.KindPlugin, name); err == nil {
		d.Body, d.UpdatedAt = plugin.Clone(), now
		return b.store.Update(ctx, d)
	}
	return b.store.Create(ctx, &model.Document{
		ID: uuid.NewString(), Kind: model.KindPlugin, Name: name, Body: plugin.Clone(), CreatedAt: now, UpdatedAt: now,
	})
}
