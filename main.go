package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nconklindev/sweeper/internal/config"
	"github.com/nconklindev/sweeper/internal/converter"
	"github.com/nconklindev/sweeper/internal/logging"
	"github.com/nconklindev/sweeper/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg is loaded before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sweeper [dir]",
	Short: "Convert and clean tabular files",
	Long: `sweeper reads CSV, Excel, Word, PowerPoint, PDF and JSON files into a
table, lets you drop duplicates, fill missing numbers and pick columns, and
writes the result back out in any of those formats.

Run without a subcommand to browse files interactively, or use "convert" to
process many files at once.`,
	Version:      fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: runInteractive,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sweeper.yaml or ~/.config/sweeper/sweeper.yaml)")
	rootCmd.PersistentFlags().String("out", "", "directory for converted files (default: next to the source)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sweeper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sweeper"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	w, closeLog, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()
	logging.Setup(cfg.Log.Level, w)

	opts := ui.Options{
		Exporter:    converter.NewExporter(cfg.ExportOptions()),
		OutputDir:   cfg.Output.Dir,
		PreviewRows: cfg.Preview.Rows,
	}
	if len(args) == 1 {
		opts.StartDir = args[0]
	}

	p := tea.NewProgram(ui.InitialModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("ui exited")
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
