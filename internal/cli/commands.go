// Package cli wires the data pipeline and the renderer into the renda
// command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/renda/internal/version"
	"github.com/arthur-debert/renda/pkg/config"
	"github.com/arthur-debert/renda/pkg/context"
	"github.com/arthur-debert/renda/pkg/dataspec"
	"github.com/arthur-debert/renda/pkg/errors"
	"github.com/arthur-debert/renda/pkg/filesystem"
	"github.com/arthur-debert/renda/pkg/formats"
	"github.com/arthur-debert/renda/pkg/logging"
	"github.com/arthur-debert/renda/pkg/render"
	"github.com/arthur-debert/renda/pkg/source"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity      int
		undefined      string
		ignoreMissing  bool
		fallbackFormat string
		output         string
	)

	defaults := config.Defaults()

	rootCmd := &cobra.Command{
		Use:   "renda TEMPLATE [DATA...]",
		Short: "Render templates against merged data sources",
		Long: `renda renders a text template against a context merged from any number
of data sources: files, standard input and the process environment.

Each DATA argument is a spec of the form <source>[:<format>[:<destination>]].
The format is resolved by explicit tag, by file extension, or by the fallback
format, in that order. A destination nests the decoded data under that key
instead of merging it at the top level. Without DATA arguments the context is
a snapshot of the process environment.`,
		Example: `  # Render a config template from environment variables
  renda nginx.conf.tmpl

  # Merge an INI file and a JSON file; later sources win on conflicts
  renda app.conf.tmpl defaults.ini overrides.json

  # Read JSON from stdin and nest it under the "db" key
  cat db.json | renda app.conf.tmpl -:json:db`,
		Version: version.Version,
		Args:    cobra.MinimumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			// Flags given on the command line beat settings-file values.
			if !cmd.Flags().Changed("undefined") {
				undefined = settings.Undefined
			}
			if !cmd.Flags().Changed("ignore-missing") {
				ignoreMissing = settings.IgnoreMissing
			}
			if !cmd.Flags().Changed("fallback-format") {
				fallbackFormat = settings.FallbackFormat
			}

			return runRender(cmd, args[0], args[1:], renderParams{
				undefined:      undefined,
				fallbackFormat: fallbackFormat,
				ignoreMissing:  ignoreMissing,
				output:         output,
			})
		},
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVarP(&ignoreMissing, "ignore-missing", "I", defaults.IgnoreMissing,
		"Treat missing data files as empty instead of failing")
	rootCmd.PersistentFlags().StringVarP(&fallbackFormat, "fallback-format", "f", defaults.FallbackFormat,
		"Format for data specs without a tag or a recognized extension")

	rootCmd.Flags().StringVarP(&undefined, "undefined", "U", defaults.Undefined,
		fmt.Sprintf("How undefined template variables render (%s)", strings.Join(render.Modes, "|")))
	rootCmd.Flags().StringVarP(&output, "output", "o", "",
		"Write the rendered output to FILE instead of stdout")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newContextCmd())

	return rootCmd
}

// renderParams are the effective options for one render invocation, after
// settings-file defaults and flags have been reconciled.
type renderParams struct {
	undefined      string
	fallbackFormat string
	ignoreMissing  bool
	output         string
}

func runRender(cmd *cobra.Command, templateArg string, tokens []string, p renderParams) error {
	specs, err := parseSpecs(tokens, p.fallbackFormat)
	if err != nil {
		return err
	}

	// Stdin is a single stream: it can feed the template or one data
	// source, never both.
	if templateArg == dataspec.StdinMarker {
		for _, spec := range specs {
			if spec.Kind == dataspec.KindStdin {
				return errors.New(errors.ErrInvalidInput,
					"stdin cannot supply both the template and a data source")
			}
		}
	}

	ctx, err := buildContext(cmd, specs, p.ignoreMissing)
	if err != nil {
		return err
	}

	renderer, err := render.New(render.Mode(p.undefined), filesystem.NewOS())
	if err != nil {
		return err
	}

	var out []byte
	if templateArg == dataspec.StdinMarker {
		var src []byte
		src, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, errors.ErrSourceRead, "cannot read template from stdin")
		}
		out, err = renderer.Render("stdin", src, ctx)
	} else {
		out, err = renderer.RenderFile(templateArg, ctx)
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("template", templateArg).
		Int("sources", len(specs)).
		Int("bytes", len(out)).
		Msg("Rendered template")

	if p.output != "" {
		if err := os.WriteFile(p.output, out, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrOutputWrite,
				"cannot write rendered output to '%s'", p.output)
		}
		return nil
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return errors.Wrap(err, errors.ErrOutputWrite, "cannot write rendered output")
	}
	return nil
}

// parseSpecs validates the fallback format and parses the data tokens.
// Zero tokens mean "use the process environment".
func parseSpecs(tokens []string, fallback string) ([]dataspec.DataSpec, error) {
	reg := formats.Default

	f, err := reg.Resolve(fallback)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"fallback format '%s' is not a known format", fallback)
	}
	if !f.Available() {
		return nil, errors.Newf(errors.ErrFormatUnavailable,
			"fallback format '%s' is not available in this build", f.Name)
	}

	parser := dataspec.NewParser(reg)
	specs := make([]dataspec.DataSpec, 0, len(tokens))
	for _, tok := range tokens {
		spec, err := parser.Parse(tok, fallback)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		specs = append(specs, dataspec.DataSpec{Kind: dataspec.KindNone, Format: "ENV"})
	}
	return specs, nil
}

// buildContext reads, decodes and merges the specs into one context.
func buildContext(cmd *cobra.Command, specs []dataspec.DataSpec, ignoreMissing bool) (context.Context, error) {
	reader := source.New(filesystem.NewOS(), cmd.InOrStdin())
	builder := context.NewBuilder(formats.Default, reader, ignoreMissing)
	return builder.Build(specs)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("renda version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newContextCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "context [DATA...]",
		Short: "Show the merged context without rendering",
		Long: `context runs the data pipeline only: it parses the data specs, reads and
decodes every source, merges the results and prints the final context.
Useful for checking what a template will actually see.`,
		Example: `  # Inspect what two overlapping sources merge into
  renda context defaults.ini overrides.json

  # Dump the environment snapshot as YAML
  renda context --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Root().PersistentFlags()
			ignoreMissing, _ := flags.GetBool("ignore-missing")
			if !flags.Changed("ignore-missing") {
				ignoreMissing = settings.IgnoreMissing
			}
			fallback, _ := flags.GetString("fallback-format")
			if !flags.Changed("fallback-format") {
				fallback = settings.FallbackFormat
			}

			specs, err := parseSpecs(args, fallback)
			if err != nil {
				return err
			}
			ctx, err := buildContext(cmd, specs, ignoreMissing)
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "json":
				out, err = ctx.JSON()
			case "yaml":
				out, err = ctx.YAML()
			default:
				return errors.Newf(errors.ErrInvalidInput,
					"unknown context dump format '%s' (want json or yaml)", format)
			}
			if err != nil {
				return err
			}

			if len(out) == 0 || out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Context dump format (json|yaml)")
	return cmd
}
