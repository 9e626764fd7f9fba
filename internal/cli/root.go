// Package cli implements the player-side command line: draws against the
// external catalog plus read and delete access to the collection.
package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"creaturedex/internal/acquisition"
	"creaturedex/internal/catalog"
	"creaturedex/internal/collection"
	"creaturedex/platform/config"
	"creaturedex/platform/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL     string
	CatalogURL string
	Timeout    time.Duration
	Verbose    bool

	cfg *config.Config
}

// NewRootCommand creates the root command of the player CLI. cfg supplies
// the flag defaults and the catalog settings.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "creaturedex",
		Short: "Creaturedex - collect creatures from the catalog",
		Long:  "Draw random creatures from the public catalog and manage your collection through the storage API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.APIURL == "" {
				return fmt.Errorf("--api-url must not be empty")
			}
			if opts.CatalogURL == "" {
				return fmt.Errorf("--catalog-url must not be empty")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", cfg.StorageAPIURL, "storage API base URL")
	cmd.PersistentFlags().StringVar(&opts.CatalogURL, "catalog-url", cfg.CatalogBaseURL, "catalog base URL")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", cfg.StorageAPITimeout, "storage API request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(NewDrawCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))

	return cmd
}

func (o *RootOptions) logger(cmd *cobra.Command) *logger.Logger {
	if !o.Verbose {
		return logger.Nop()
	}
	return logger.NewWithWriter(o.cfg.Env, cmd.ErrOrStderr())
}

func (o *RootOptions) store() *collection.Client {
	return collection.NewWithHTTPClient(o.APIURL, &http.Client{Timeout: o.Timeout})
}

// workflow builds a draw workflow. The returned func releases the listing
// cache, if one was opened.
func (o *RootOptions) workflow(cmd *cobra.Command) (*acquisition.Workflow, func(), error) {
	log := o.logger(cmd)

	catalogCfg := *o.cfg
	catalogCfg.CatalogBaseURL = o.CatalogURL

	var catalogOpts []catalog.Option
	release := func() {}
	if o.cfg.RedisURL != "" {
		cache, err := catalog.NewRedisCacheFromURL(o.cfg.RedisURL, o.cfg.CatalogCacheTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("listing cache: %w", err)
		}
		catalogOpts = append(catalogOpts, catalog.WithCache(cache))
		release = func() { _ = cache.Close() }
	}

	cat := catalog.New(&catalogCfg, log, catalogOpts...)
	return acquisition.New(cat, o.store(), nil, log), release, nil
}
