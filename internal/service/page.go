package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/maxviazov/recent-repos/internal/config"
	"github.com/maxviazov/recent-repos/internal/filter"
	"github.com/maxviazov/recent-repos/internal/github"
	"github.com/maxviazov/recent-repos/internal/model"
	"github.com/maxviazov/recent-repos/internal/page"
	"github.com/maxviazov/recent-repos/internal/render"
)

// pageService orchestrates a run: no HTML parsing details, no HTTP details.
type pageService struct {
	client github.Client
	cfg    config.PageConfig
	log    zerolog.Logger
}

func NewPageService(client github.Client, cfg config.PageConfig, logger zerolog.Logger) PageService {
	l := logger.With().Str("module", "service").Str("component", "page").Logger()
	return &pageService{client: client, cfg: cfg, log: l}
}

func (s *pageService) Enhance(ctx context.Context, r io.Reader, w io.Writer) (Report, error) {
	doc, err := page.Parse(r, s.cfg)
	if err != nil {
		return Report{}, err
	}
	rep, err := s.Run(ctx, doc)
	if err != nil {
		return rep, err
	}
	if err := doc.Render(w); err != nil {
		return rep, fmt.Errorf("write document: %w", err)
	}
	return rep, nil
}

// Run extracts markers, clears the container, then launches one chain per
// marker. Chains never see each other's errors; Run only waits for them so the
// caller can serialize a finished document.
func (s *pageService) Run(ctx context.Context, p Page) (Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	markers := p.Markers(log)

	container, err := p.RenderContainer()
	if err != nil {
		log.Error().Err(err).Msg("render container lookup failed")
		return Report{RunID: runID, Markers: len(markers)}, err
	}
	container.Clear()

	col := &collector{report: Report{RunID: runID, Markers: len(markers)}}
	renderer := render.New(container)

	var g errgroup.Group
	for _, m := range markers {
		g.Go(func() error {
			if err := s.chain(ctx, log, renderer, m); err != nil {
				log.Error().Err(err).Str("user", m.User).Str("cutoff", m.Cutoff).Msg("chain failed")
				col.failed(m.User, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	rep := col.snapshot(renderer.Users())
	log.Info().
		Int("markers", rep.Markers).
		Int("rendered", len(rep.Rendered)).
		Int("failed", len(rep.Failures)).
		Dur("took", time.Since(start)).
		Msg("run finished")
	return rep, nil
}

// chain is fetch -> filter -> render for a single marker.
func (s *pageService) chain(ctx context.Context, log zerolog.Logger, renderer *render.Renderer, m model.Marker) error {
	cutoff, err := filter.ParseTimestamp(m.Cutoff)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCutoff, err)
	}

	repos, err := s.client.ListUserRepositories(ctx, m.User)
	if err != nil {
		return err
	}

	kept := filter.UpdatedAfter(repos, cutoff)
	renderer.Render(model.UserTable{User: m.User, Cutoff: m.Cutoff, Repositories: kept})

	log.Debug().Str("user", m.User).Int("fetched", len(repos)).Int("kept", len(kept)).Msg("table rendered")
	return nil
}
