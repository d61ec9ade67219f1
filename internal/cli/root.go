// Package cli wires the nbpreview commands into a cobra root command.
package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/basecamp/nbpreview/internal/appctx"
	"github.com/basecamp/nbpreview/internal/clierr"
	"github.com/basecamp/nbpreview/internal/commands"
	"github.com/basecamp/nbpreview/internal/config"
	"github.com/basecamp/nbpreview/internal/tui"
	"github.com/basecamp/nbpreview/internal/version"
)

// capabilityFlags are the tri-state switches: unset flags leave the
// value to config files, the environment or terminal detection.
var capabilityFlags = []struct {
	name  string
	usage string
	field func(*config.FlagOverrides) **bool
}{
	{"unicode", "Use unicode characters", func(o *config.FlagOverrides) **bool { return &o.Unicode }},
	{"nerd-font", "Use nerd font icons", func(o *config.FlagOverrides) **bool { return &o.NerdFont }},
	{"hyperlinks", "Render clickable hyperlinks", func(o *config.FlagOverrides) **bool { return &o.Hyperlinks }},
	{"files", "Write images and pages to temporary files", func(o *config.FlagOverrides) **bool { return &o.Files }},
	{"hide-hyperlink-hints", "Hide \"Click to view\" hints", func(o *config.FlagOverrides) **bool { return &o.HideHyperlinkHints }},
	{"plain", "Render without decorations", func(o *config.FlagOverrides) **bool { return &o.Plain }},
	{"unicode-border", "Draw cell borders with unicode box characters", func(o *config.FlagOverrides) **bool { return &o.UnicodeBorder }},
}

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags
	var theme string
	var width int

	cmd := &cobra.Command{
		Use:           "nbpreview",
		Short:         "Render Jupyter notebook cells and outputs in the terminal",
		Long:          "nbpreview renders notebook cells and their outputs for the terminal: markdown, code, tables, LaTeX, JSON, tracebacks, images and charts.",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			overrides := flagOverrides(cmd)
			overrides.Theme = theme
			overrides.Width = width
			cfg, err := config.Load(overrides)
			if err != nil {
				return clierr.ErrUsage(err.Error())
			}

			w, isTTY := terminalInfo(cmd.OutOrStdout())
			app := appctx.NewApp(cfg, appctx.Terminal{IsTTY: isTTY, Width: w})
			app.Out = cmd.OutOrStdout()
			app.Flags = flags
			app.ApplyFlags()
			setColorProfile(app.Caps.Plain)

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	// Allow flags anywhere in the command line
	cmd.Flags().SetInterspersed(true)
	cmd.PersistentFlags().SetInterspersed(true)

	cmd.PersistentFlags().StringVarP(&theme, "theme", "t", "", "Syntax theme (default "+config.DefaultTheme+")")
	cmd.PersistentFlags().IntVarP(&width, "width", "w", 0, "Render width (default: terminal width)")
	for _, f := range capabilityFlags {
		cmd.PersistentFlags().Bool(f.name, false, f.usage)
	}
	cmd.PersistentFlags().StringVar(&flags.TempDir, "temp-dir", "", "Directory for linked files (default: system temp dir)")
	cmd.PersistentFlags().CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (-v for info, -vv for debug)")

	cmd.AddCommand(commands.NewOutputCmd())
	cmd.AddCommand(commands.NewCellCmd())

	return cmd
}

// flagOverrides collects the capability flags the user set explicitly.
func flagOverrides(cmd *cobra.Command) config.FlagOverrides {
	var o config.FlagOverrides
	for _, f := range capabilityFlags {
		flag := cmd.Flag(f.name)
		if flag == nil || !flag.Changed {
			continue
		}
		v, err := strconv.ParseBool(flag.Value.String())
		if err != nil {
			continue
		}
		*f.field(&o) = &v
	}
	return o
}

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, transformCobraError(err)))
	}
}

// reportError prints err and returns the process exit code.
func reportError(w io.Writer, err error) int {
	e := clierr.AsError(err)
	styles := tui.NewStyles()
	fmt.Fprintln(w, styles.Error.Render("Error: "+e.Message))
	if e.Hint != "" {
		fmt.Fprintln(w, styles.Muted.Render(e.Hint))
	}
	return e.ExitCode()
}

var shorthandFlag = regexp.MustCompile(`unknown shorthand flag: '.' in (-\w)`)

// transformCobraError turns cobra's argument errors into usage errors.
func transformCobraError(err error) error {
	msg := err.Error()

	if flag, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return clierr.ErrUsage(flag + " requires a value")
	}
	if flag, ok := strings.CutPrefix(msg, "unknown flag: "); ok {
		return clierr.ErrUsage("Unknown option: " + flag)
	}
	if matches := shorthandFlag.FindStringSubmatch(msg); len(matches) > 1 {
		return clierr.ErrUsage("Unknown option: " + matches[1])
	}
	if strings.HasPrefix(msg, "unknown command ") {
		return clierr.ErrUsageHint(msg, "Run 'nbpreview --help' for usage")
	}
	if strings.Contains(msg, "invalid argument") {
		return clierr.ErrUsage(msg)
	}
	if strings.Contains(msg, "arg(s), received 0") {
		return clierr.ErrUsageHint("File required", "Use - to read from stdin")
	}
	if strings.Contains(msg, "arg(s), received") {
		return clierr.ErrUsage(msg)
	}

	return err
}

// setColorProfile drops colors for plain output and follows the
// environment otherwise.
func setColorProfile(plain bool) {
	lipgloss.SetColorProfile(colorProfile(plain))
}
