package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/maestro/internal/config"
	"github.com/jackzampolin/maestro/internal/extract"
	"github.com/jackzampolin/maestro/internal/home"
	"github.com/jackzampolin/maestro/internal/prompts"
	"github.com/jackzampolin/maestro/internal/prompts/releasemeta"
	"github.com/jackzampolin/maestro/internal/providers"
	"github.com/jackzampolin/maestro/internal/script"
	"github.com/jackzampolin/maestro/internal/session"
	"github.com/jackzampolin/maestro/internal/tui"
)

var reviewProvider string

var reviewCmd = &cobra.Command{
	Use:   "review [text...]",
	Short: "Review a release interactively in the terminal",
	Long: `Open the interactive review loop: paste release text, correct the
extracted fields, validate, and generate the portal fill script.

The pipeline runs in-process against a local session; no server is
needed. Generated scripts are saved under the maestro home directory.

Examples:
  maestro review
  maestro review "Jane Doe releases her new single Midnight Drive..."
  maestro review --provider mock     # offline dry run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The alternate screen owns the terminal, so component logs are
		// dropped instead of corrupting it.
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		registry := providers.NewRegistryFromConfig(cm.Get().ToRegistryConfig())
		if registry.Len() == 0 {
			return errors.New("no usable extraction providers: check provider api_key settings (e.g. GOOGLE_API_KEY) or enable one in config.yaml")
		}

		name := reviewProvider
		if name == "" {
			name = cm.Get().Defaults.Provider
		}
		client, err := registry.Get(name)
		if err != nil {
			return err
		}

		resolver := prompts.NewResolver(logger)
		releasemeta.RegisterPrompts(resolver)
		resolver.SetOverrides(cm.Get().Prompts)

		gen := script.New()
		if url := cm.Get().Portal.URL; url != "" {
			gen.PortalURL = url
		}

		ex, err := extract.New(extract.Config{
			Client:   client,
			Resolver: resolver,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		sess := session.NewManager(1, logger).Create()

		path, err := tui.Run(cmd.Context(), tui.Config{
			Extractor:   ex,
			Generator:   gen,
			Home:        h,
			InitialText: strings.Join(args, " "),
		}, sess)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Printf("fill script saved to %s\n", path)
		}
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewProvider, "provider", "", "Extraction provider (default from config)")

	rootCmd.AddCommand(reviewCmd)
}
