// Package cli implements the lc2kpp command line.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lc2kpp/pkg/config"
	"lc2kpp/pkg/preproc"
	"lc2kpp/pkg/utils"
)

var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

type rootOptions struct {
	cfgFile string
	verbose bool
	strict  bool
	defines []string
}

// NewRootCommand builds the lc2kpp command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lc2kpp <source> <dest>",
		Short: "LC2K macro preprocessor",
		Long: `lc2kpp turns LC2K+ source into a plain LC2K assembly listing.

It supports #define value and function macros, // and /* */ comments,
backslash line continuations, inline labels and ';' statement separators.
Use - as source or destination for standard input or output.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.cfgFile, "config", "", "config file (default: $"+config.EnvConfig+")")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on a block comment left open at end of input")
	cmd.Flags().StringArrayVarP(&opts.defines, "define", "D", nil, "predefine a value macro NAME[=VALUE]")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

// Execute runs the command line and reports a failure on stderr.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("error:"), err)
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.cfgFile != "" {
		cfg, err = config.Load(opts.cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if opts.strict {
		cfg.StrictComments = true
	}
	for _, def := range opts.defines {
		name, value, _ := strings.Cut(def, "=")
		if name == "" {
			return nil, fmt.Errorf("invalid --define %q: missing name", def)
		}
		cfg.Defines[name] = value
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *rootOptions, source, dest string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := cfg.Logger(cmd.ErrOrStderr()).WithRunID()

	p, err := preproc.New(cfg.Options(log))
	if err != nil {
		return err
	}

	srcPath, _, err := utils.GetPathInfo(source)
	if err != nil {
		return err
	}
	in, err := utils.OpenSource(source, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := utils.CreateDestination(dest, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	log.Debug("preprocessing", "source", srcPath, "dest", dest)
	n, err := p.Run(in, out)
	if err != nil {
		if abortErr := out.Abort(); abortErr != nil {
			log.ErrorWithErr("failed to discard partial output", abortErr, "dest", dest)
		}
		return fmt.Errorf("%s: %w", source, err)
	}
	if err := out.Commit(); err != nil {
		return err
	}

	log.Info("preprocessed", "source", srcPath, "dest", dest, "lines", n)
	return nil
}
