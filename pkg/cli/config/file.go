package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is an optional TOML configuration file. Keys are flag names and tables
// prefix their keys, so `[portal] url = "..."` sets --portal-url. Values given as
// flags or environment variables take precedence over the file.
type File struct {
	Path string
}

// Flags returns CLI flags for the configuration file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML configuration file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("CADPORT_CONFIG"),
		},
	}
}

// Values reads the file into flag-name keyed values. No path means no values.
func (c *File) Values() (map[string]string, error) {
	values := map[string]string{}
	if c.Path == "" {
		return values, nil
	}

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}

	flatten("", doc, values)
	return values, nil
}

// Apply loads the file and sets every flag of cmd that was not set explicitly
func (c *File) Apply(cmd *cli.Command) error {
	values, err := c.Values()
	if err != nil {
		return err
	}
	return ApplyValues(cmd, values)
}

// ApplyValues sets the flags of cmd from values unless the flag was already set
// on the command line or through its environment variable
func ApplyValues(cmd *cli.Command, values map[string]string) error {
	for _, flag := range cmd.Flags {
		names := flag.Names()
		if len(names) == 0 {
			continue
		}
		name := names[0]
		value, ok := values[name]
		if !ok || cmd.IsSet(name) {
			continue
		}
		if err := cmd.Set(name, value); err != nil {
			return goerr.Wrap(err, "invalid value in config file",
				goerr.V("key", name),
				goerr.V("value", value))
		}
	}
	return nil
}

func flatten(prefix string, doc map[string]any, out map[string]string) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "-" + k
		}
		switch v := doc[k].(type) {
		case map[string]any:
			flatten(name, v, out)
		case string:
			out[name] = v
		default:
			out[name] = fmt.Sprint(v)
		}
	}
}
