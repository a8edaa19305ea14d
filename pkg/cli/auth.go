package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/cli/config"
)

func cmdLogin(fileCfg *config.File) *cli.Command {
	var (
		pipelineCfg pipelineConfig
		email       string
		password    string
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Usage:       "Portal account email",
			Required:    true,
			Destination: &email,
			Sources:     cli.EnvVars("CADPORT_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "Portal account password",
			Required:    true,
			Destination: &password,
			Sources:     cli.EnvVars("CADPORT_PASSWORD"),
		},
	}, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:   "login",
		Usage:  "Authenticate with the portal and store the session",
		Flags:  flags,
		Before: withFile(fileCfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := pipelineCfg.build(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			result := p.sessions.Login(ctx, email, password)
			printOutcome(c.Root().Writer, result.Success, result.Message)
			if !result.Success {
				return goerr.New("login failed", goerr.V("email", email))
			}
			return nil
		},
	}
}

func cmdLogout(fileCfg *config.File) *cli.Command {
	var pipelineCfg pipelineConfig

	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the stored portal session",
		Flags:  pipelineCfg.Flags(),
		Before: withFile(fileCfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := pipelineCfg.build(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			result := p.sessions.Logout(ctx)
			printOutcome(c.Root().Writer, result.Success, result.Message)
			return nil
		},
	}
}

func cmdStatus(fileCfg *config.File) *cli.Command {
	var pipelineCfg pipelineConfig

	return &cli.Command{
		Name:   "status",
		Usage:  "Show whether a usable portal session is stored",
		Flags:  pipelineCfg.Flags(),
		Before: withFile(fileCfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := pipelineCfg.build(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			status := p.sessions.CheckAuthentication(ctx)
			renderAuthStatus(c.Root().Writer, status)
			if !status.Authenticated {
				printLoginHint(c.Root().Writer)
			}
			return nil
		},
	}
}
