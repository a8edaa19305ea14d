package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/cli/config"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

func cmdSearch(fileCfg *config.File) *cli.Command {
	var pipelineCfg pipelineConfig

	return &cli.Command{
		Name:      "search",
		Usage:     "Search the portal for parts",
		ArgsUsage: "<query>",
		Flags:     pipelineCfg.Flags(),
		Before:    withFile(fileCfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return goerr.New("search query is required")
			}

			p, err := pipelineCfg.build(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			w := c.Root().Writer
			resp := p.search.Search(ctx, query)
			if !resp.Success {
				printOutcome(w, false, resp.Message)
				if resp.RequiresLogin {
					printLoginHint(w)
				}
				return goerr.New("search failed", goerr.V("query", query))
			}

			renderSearch(w, resp)
			return nil
		},
	}
}

func cmdDownload(fileCfg *config.File) *cli.Command {
	var (
		pipelineCfg  pipelineConfig
		manufacturer string
		downloadURL  string
	)

	flags := append([]cli.Flag{
		&cli.StringFlag{
			Name:        "manufacturer",
			Aliases:     []string{"m"},
			Usage:       "Part manufacturer",
			Destination: &manufacturer,
		},
		&cli.StringFlag{
			Name:        "url",
			Usage:       "Detail page URL, overriding the one built from part number and manufacturer",
			Destination: &downloadURL,
		},
	}, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:      "download",
		Aliases:   []string{"dl"},
		Usage:     "Download and extract a part's CAD library",
		ArgsUsage: "<part number>",
		Flags:     flags,
		Before:    withFile(fileCfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("exactly one part number is required")
			}

			p, err := pipelineCfg.build(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			result := p.library.Download(ctx, &model.AcquisitionRequest{
				PartNumber:   c.Args().First(),
				Manufacturer: manufacturer,
				DownloadURL:  downloadURL,
			})
			renderAcquisition(c.Root().Writer, result)
			if !result.Success {
				return goerr.New("download failed",
					goerr.V("part_number", result.PartNumber),
					goerr.V("error", result.Error))
			}
			return nil
		},
	}
}
