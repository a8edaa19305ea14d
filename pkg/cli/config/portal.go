package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/types"
	"github.com/m-mizutani/cadport/pkg/infra/portal"
)

// Portal holds vendor portal connection settings
type Portal struct {
	URL       string
	Name      string
	Timeout   time.Duration
	RateLimit float64
}

// Flags returns CLI flags for portal configuration
func (c *Portal) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "portal-url",
			Usage:       "Base URL of the vendor portal",
			Destination: &c.URL,
			Sources:     cli.EnvVars("CADPORT_PORTAL_URL"),
		},
		&cli.StringFlag{
			Name:        "portal-name",
			Usage:       "Portal name reported as the source of downloaded libraries",
			Value:       "portal",
			Destination: &c.Name,
			Sources:     cli.EnvVars("CADPORT_PORTAL_NAME"),
		},
		&cli.DurationFlag{
			Name:        "portal-timeout",
			Usage:       "Timeout for a single portal request",
			Value:       60 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("CADPORT_PORTAL_TIMEOUT"),
		},
		&cli.FloatFlag{
			Name:        "portal-rate-limit",
			Usage:       "Maximum portal requests per second (0 for unlimited)",
			Destination: &c.RateLimit,
			Sources:     cli.EnvVars("CADPORT_PORTAL_RATE_LIMIT"),
		},
	}
}

// Client creates the portal client
func (c *Portal) Client() (interfaces.PortalClient, error) {
	if c.URL == "" {
		return nil, goerr.New("portal URL is required (--portal-url or CADPORT_PORTAL_URL)")
	}

	client, err := portal.New(c.URL,
		portal.WithTimeout(c.Timeout),
		portal.WithRateLimit(c.RateLimit),
		portal.WithUserAgent(types.ServiceName+"/"+types.Version),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create portal client", goerr.V("url", c.URL))
	}
	return client, nil
}
