package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/cli/config"
	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/infra/metrics"
	"github.com/m-mizutani/cadport/pkg/infra/portal"
	"github.com/m-mizutani/cadport/pkg/usecase"
)

// pipelineConfig groups the settings every portal-facing command needs
type pipelineConfig struct {
	portal     config.Portal
	library    config.Library
	credential config.Credential
}

func (p *pipelineConfig) Flags() []cli.Flag {
	flags := append(p.portal.Flags(), p.library.Flags()...)
	return append(flags, p.credential.Flags()...)
}

type pipeline struct {
	sessions *usecase.SessionManager
	search   interfaces.SearchUseCase
	library  interfaces.LibraryUseCase
	metrics  *metrics.Prometheus
	close    func()
}

func (p *pipelineConfig) build(ctx context.Context) (*pipeline, error) {
	client, err := p.portal.Client()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := p.credential.Store(ctx)
	if err != nil {
		return nil, err
	}

	prom := metrics.New()
	sink := p.library.Sink()
	opts := []usecase.Option{
		usecase.WithMetrics(prom),
		usecase.WithMatchers(portal.DefaultMatchers()...),
		usecase.WithMaxEntrySize(p.library.MaxEntrySize),
		usecase.WithSource(p.portal.Name),
	}

	sessions := usecase.NewSession(store, client, opts...)
	return &pipeline{
		sessions: sessions,
		search:   usecase.NewSearch(sessions, client, opts...),
		library:  usecase.NewLibrary(sessions, client, sink, usecase.NewExtractor(sink, opts...), opts...),
		metrics:  prom,
		close:    closeStore,
	}, nil
}

// withFile applies the configuration file to a subcommand before it runs
func withFile(fileCfg *config.File) cli.BeforeFunc {
	return func(ctx context.Context, c *cli.Command) (context.Context, error) {
		return ctx, fileCfg.Apply(c)
	}
}
