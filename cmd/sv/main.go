package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/config"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/loader"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/logging"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/ui"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/updater"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/watcher"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var errNotTerminal = errors.New("sv needs an interactive terminal")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	root := &cobra.Command{
		Use:           "sv",
		Short:         "A sticky sheet you drag, flick and tap in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ReadInto(v, cfgFile); err != nil {
				return err
			}
			if cmd.Flags().Changed("points") {
				pts, err := cmd.Flags().GetFloat64Slice("points")
				if err != nil {
					return err
				}
				v.Set("sheet.sticky_points", pts)
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			return run(cfg, v.ConfigFileUsed())
		},
	}
	root.SetVersionTemplate("sv version {{.Version}}\n")

	flags := root.Flags()
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./"+config.DefaultFileName+")")
	flags.StringP("direction", "d", "", "direction the sheet opens: bottom_to_top, top_to_bottom, left_to_right, right_to_left")
	flags.Float64SliceP("points", "p", nil, "sticky points as reveal fractions, e.g. 0.2,0.5,0.8")
	flags.Bool("frozen", false, "start with input frozen")
	flags.String("content", "", "markdown file shown on the sheet (default ./"+loader.DefaultContentFile+")")
	flags.Bool("watch", true, "reload config and content when they change")
	flags.String("log-file", "", "write logs to this file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	bindings := map[string]string{
		"sheet.direction": "direction",
		"sheet.frozen":    "frozen",
		"content.file":    "content",
		"content.watch":   "watch",
		"log.file":        "log-file",
		"log.level":       "log-level",
	}
	for key, name := range bindings {
		// Only explicitly set flags override file and env values.
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	root.AddCommand(newInitConfigCmd(), newVersionCmd())
	return root
}

func newInitConfigCmd() *cobra.Command {
	var force, interactive bool
	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration to " + config.DefaultFileName,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			cfg := config.Default()
			if interactive {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errNotTerminal
				}
				var err error
				if cfg, err = askConfig(cfg); err != nil {
					return err
				}
			}
			if err := config.Write(path, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose the sheet settings in a form")
	return cmd
}

func newVersionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the sv version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sv version %s\n", version)
			if !check {
				return nil
			}
			rel, err := updater.NewChecker().Latest(cmd.Context(), version)
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if rel == nil {
				fmt.Fprintln(out, "sv is up to date")
				return nil
			}
			fmt.Fprintf(out, "sv %s is available: %s\n", rel.TagName, rel.HTMLURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

func run(cfg config.Config, configPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	contentPath := cfg.Content.File
	if contentPath == "" {
		contentPath = loader.DefaultContentFile
	}
	body, err := loader.LoadContentOrDefault(contentPath)
	if err != nil {
		logger.Warn("could not read sheet content, using default", zap.String("path", contentPath), zap.Error(err))
	}

	style := "dark"
	if !lipgloss.HasDarkBackground() {
		style = "light"
	}

	m := ui.NewModel(ui.Options{
		Config:       cfg,
		ConfigPath:   configPath,
		ContentPath:  contentPath,
		Body:         body,
		GlamourStyle: style,
		Logger:       logger,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.Content.Watch {
		paths := []string{contentPath}
		if configPath != "" {
			paths = append(paths, configPath)
		}
		w, err := watcher.New(paths, func(changed []string) {
			p.Send(ui.FilesChangedMsg{Paths: changed})
		}, watcher.Options{Logger: logger})
		if err != nil {
			logger.Warn("live reload disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	logger.Info("starting", zap.String("version", version), zap.String("direction", cfg.Sheet.Direction))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run sheet: %w", err)
	}
	return nil
}
