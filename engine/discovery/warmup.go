package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Warmup pre-resolves the given type names. Types nothing exports land in the
// report's Missing list without failing the pass; any other error cancels the
// remaining resolutions and is returned alongside the partial report.
func (c *Cache) Warmup(ctx context.Context, names []string) (domain.WarmupReport, error) {
	started := time.Now()
	ctx, vtx := c.tel.Record(ctx, "warm type cache")

	results := make([]error, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, name := range names {
		g.Go(func() error {
			_, nvtx := c.tel.Record(gctx, "resolve "+name, ports.WithInternal())
			c.mu.RLock()
			_, already := c.resolved[name]
			c.mu.RUnlock()

			_, err := c.FindType(gctx, name)
			// A name resolved before this pass did no new work; render it as
			// a cached vertex.
			if err == nil && already {
				nvtx.Cached()
			}
			nvtx.Complete(err)
			results[i] = err
			if errors.Is(err, domain.ErrTypeNotFound) {
				return nil
			}
			return err
		})
	}
	err := g.Wait()

	report := domain.WarmupReport{Elapsed: time.Since(started)}
	for i, name := range names {
		if results[i] == nil {
			report.Resolved = append(report.Resolved, name)
		} else {
			report.Missing = append(report.Missing, name)
		}
	}

	vtx.Complete(err)
	return report, err
}

// ResolveMethod resolves a type and picks the first capability candidate the
// type actually has. Candidates are probed in order, so aliases can cover
// getter renames across game builds.
func (c *Cache) ResolveMethod(ctx context.Context, typeName string, capability domain.Capability) (domain.TypeDescriptor, domain.MethodDescriptor, error) {
	desc, err := c.FindType(ctx, typeName)
	if err != nil {
		return domain.TypeDescriptor{}, domain.MethodDescriptor{}, err
	}

	for _, candidate := range capability.MethodCandidates() {
		if m, ok := desc.Method(candidate); ok {
			return desc, m, nil
		}
	}

	err = zerr.With(domain.ErrMethodNotFound, "type", desc.FullName)
	err = zerr.With(err, "capability", capability.Name)
	return domain.TypeDescriptor{}, domain.MethodDescriptor{}, err
}
