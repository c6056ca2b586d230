package connectors

import (
	"context"
	"errors"
	"fmt"

	"github.com/nuxway/knowledge-rag/internal/connectors/filesystem"
	"github.com/nuxway/knowledge-rag/internal/connectors/web"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// Ensure Dispatcher implements the interface.
var _ driven.Fetcher = (*Dispatcher)(nil)

// Dispatcher routes each source to the fetcher registered for its kind.
type Dispatcher struct {
	fetchers map[domain.SourceKind]driven.Fetcher
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{fetchers: make(map[domain.SourceKind]driven.Fetcher)}
}

// NewDefaultDispatcher wires the web and filesystem connectors.
func NewDefaultDispatcher(webCfg web.Config) *Dispatcher {
	d := NewDispatcher()
	d.Register(domain.SourceURL, web.New(webCfg))
	d.Register(domain.SourceFile, filesystem.New())
	return d
}

// Register sets the fetcher for a source kind.
func (d *Dispatcher) Register(kind domain.SourceKind, f driven.Fetcher) {
	d.fetchers[kind] = f
}

// Fetch retrieves src. Every error is a *domain.FetchError.
func (d *Dispatcher) Fetch(ctx context.Context, src domain.Source) (*domain.RawDocument, error) {
	f, ok := d.fetchers[src.Kind]
	if !ok {
		return nil, &domain.FetchError{
			Source: src.Location,
			Err:    fmt.Errorf("%w: source kind %q", domain.ErrUnsupportedType, src.Kind),
		}
	}

	raw, err := f.Fetch(ctx, src)
	if err != nil {
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &domain.FetchError{Source: src.Location, Err: err}
	}
	return raw, nil
}
