package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/config"
	"github.com/nstehr/helm/library"
	"github.com/nstehr/helm/priority"
	"github.com/nstehr/helm/trace"
)

const banner = `
██╗  ██╗███████╗██╗     ███╗   ███╗
██║  ██║██╔════╝██║     ████╗ ████║
███████║█████╗  ██║     ██╔████╔██║
██╔══██║██╔══╝  ██║     ██║╚██╔╝██║
██║  ██║███████╗███████╗██║ ╚═╝ ██║
╚═╝  ╚═╝╚══════╝╚══════╝╚═╝     ╚═╝

Priority-Driven Ship Intelligence`

//go:embed trees/default.yaml
var defaultTree []byte

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "helm",
	Short:         "Priority-tree pilots for simulated ships",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [tree.yaml]",
	Short: "Validate a priority tree document and print its outline",
	Long:  "Loads a tree document against the stock library leaves. Without an argument the built-in default tree is checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

var traceCmd = &cobra.Command{
	Use:   "trace <file.jsonl.zst>",
	Short: "Print a decision trace file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings YAML file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(traceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("helm failed", "error", err)
		os.Exit(1)
	}
}

// loadTree builds the tree at path, or the built-in default tree when path
// is empty.
func loadTree(path string, reg *priority.Registry[*agent.Agent]) (config.Tree, error) {
	if path != "" {
		return config.LoadTree(path, reg)
	}
	doc, err := config.ParseTree(defaultTree)
	if err != nil {
		return config.Tree{}, fmt.Errorf("default tree: %w", err)
	}
	return config.BuildTree(doc, reg)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	lib := library.New(library.DefaultProfile(), nil, nil)
	tree, err := loadTree(path, lib.Registry())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d entries\n", tree.Name, priority.Count(tree.Priorities))
	return priority.Outline(out, tree.Priorities)
}

func runTrace(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return trace.ReadFile(args[0], func(r trace.Record) error {
		_, err := fmt.Fprintf(out, "%9.2f %s %-22s depth=%d index=%d %s %s\n",
			r.Time, r.Agent, r.Kind, r.Depth, r.Index, r.Label, r.Behaviour)
		return err
	})
}
