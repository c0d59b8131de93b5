package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/annal/internal"
	pkgconfig "github.com/starford/annal/pkg/config"
)

var version = "dev"

const defaultConfigFile = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	path, err := pkgconfig.Resolve(cmd.String("config"), cmd.IsSet("config"))
	if err != nil {
		return nil, err
	}

	override, err := overrides(cmd)
	if err != nil {
		return nil, err
	}

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg, override); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// overrides applies flags (and their environment variables) on top of the
// config file. Only flags that were actually set take effect. Flag values
// that cannot be parsed are configuration errors.
func overrides(cmd *cli.Command) (pkgconfig.Override[internal.Config], error) {
	var level *slog.Level
	if cmd.IsSet("log-level") {
		lvl, err := internal.ParseLogLevel(cmd.String("log-level"))
		if err != nil {
			return nil, err
		}
		level = &lvl
	}

	return func(c *internal.Config) {
		if level != nil {
			c.App.LogLevel = *level
		}
		if cmd.IsSet("data-dir") {
			c.Source.DataDir = cmd.String("data-dir")
		}
		if cmd.IsSet("public-dir") {
			c.Source.PublicDir = cmd.String("public-dir")
		}
		if cmd.IsSet("extensions") {
			c.Source.Extensions = cmd.StringSlice("extensions")
		}
		if cmd.IsSet("output-dir") {
			c.Output.Dir = cmd.String("output-dir")
		}
		if cmd.IsSet("overwrite") {
			c.Output.Overwrite = cmd.Bool("overwrite")
		}
		if cmd.IsSet("template-dir") {
			c.Templates.Dir = cmd.String("template-dir")
		}
		if cmd.IsSet("site-title") {
			c.Site.Title = cmd.String("site-title")
		}
		if cmd.IsSet("site-url") {
			c.Site.URL = cmd.String("site-url")
		}
		if cmd.IsSet("site-description") {
			c.Site.Description = cmd.String("site-description")
		}
		if cmd.IsSet("catalog") {
			c.Catalog.Path = cmd.String("catalog")
		}
		if cmd.IsSet("port") {
			c.Preview.HTTP.Port = int(cmd.Int("port"))
		}
	}, nil
}

func runMode(mode string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
			internal.WithVersion(version),
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "annal",
		Usage:   "Publish dated plain-text and HTML archives as a static site",
		Version: version,
		Action:  runMode(internal.ModeBuild),
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Generate the site once and exit (default)",
				Action: runMode(internal.ModeBuild),
			},
			{
				Name:   "serve",
				Usage:  "Generate the site, serve it with the archive API and rebuild on changes",
				Action: runMode(internal.ModeServe),
			},
			{
				Name:   "mcp",
				Usage:  "Generate the site and expose the archive to MCP clients over stdio",
				Action: runMode(internal.ModeMCP),
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Root directory searched for public directories",
				Sources: cli.EnvVars("DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    "public-dir",
				Usage:   "Directory name suffix marking public directories",
				Sources: cli.EnvVars("PUBLIC_DIR"),
			},
			&cli.StringSliceFlag{
				Name:    "extensions",
				Usage:   "Publishable extensions in match order (comma separated)",
				Sources: cli.EnvVars("EXTENSIONS"),
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Output directory",
				Sources: cli.EnvVars("OUTPUT_DIR"),
			},
			&cli.BoolFlag{
				Name:    "overwrite",
				Usage:   "Re-render document pages that already exist",
				Sources: cli.EnvVars("OVERWRITE"),
			},
			&cli.StringFlag{
				Name:    "template-dir",
				Aliases: []string{"t"},
				Usage:   "Template directory",
				Sources: cli.EnvVars("TEMPLATE_DIR"),
			},
			&cli.StringFlag{
				Name:    "site-title",
				Usage:   "Site title",
				Sources: cli.EnvVars("SITE_TITLE"),
			},
			&cli.StringFlag{
				Name:    "site-url",
				Usage:   "Absolute site URL used in the feed",
				Sources: cli.EnvVars("SITE_URL"),
			},
			&cli.StringFlag{
				Name:    "site-description",
				Usage:   "Site description",
				Sources: cli.EnvVars("SITE_DESCRIPTION"),
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to the SQLite catalog",
				Sources: cli.EnvVars("CATALOG_PATH"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Preview HTTP port (serve mode)",
				Sources: cli.EnvVars("HTTP_PORT"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
