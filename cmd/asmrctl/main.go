// asmrctl drives an asmrgo Processor from a yaml run configuration: it
// loads classes and jars, runs one process() pass, and reports which
// classes changed. It registers no transformers of its own.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/phroun/asmrgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "asmrctl",
		Short: "Run bytecode transformation pipelines from a config file",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "asmrctl.yaml", "run configuration file")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Load classes and jars from the config and run one process() pass",
		RunE:  runRun,
	}
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "print modified class names as a JSON array")
	root.AddCommand(runCmd)

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the loaded config without running the processor",
		RunE:  runGraph,
	}
	root.AddCommand(graphCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return asmrgo.NewDevelopmentLogger()
	}
	return asmrgo.NewProductionLogger()
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := asmrgo.LoadRunConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	p := asmrgo.NewProcessor(logger)
	if err := cfg.Apply(p, nil); err != nil {
		return err
	}
	defer p.Close()

	if err := p.Process(context.Background()); err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	modified := p.GetModifiedClassNames()
	if jsonOutput {
		fmt.Print("[")
		for i, name := range modified {
			if i > 0 {
				fmt.Print(",")
			}
			fmt.Printf("%q", name)
		}
		fmt.Println("]")
		return nil
	}
	for _, name := range modified {
		node := p.FindClassImmediately(name)
		if node == nil {
			fmt.Println(name)
			continue
		}
		fmt.Printf("%s (%d methods, %d fields)\n", name, node.Methods().Len(), node.Fields().Len())
	}
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := asmrgo.LoadRunConfig(configPath)
	if err != nil {
		return err
	}
	fmt.Printf("classes: %d\n", len(cfg.Classes))
	fmt.Printf("jars: %d\n", len(cfg.Jars))
	if len(cfg.Anchors) > 0 {
		fmt.Printf("anchors: %v\n", cfg.Anchors)
	}
	for k, v := range cfg.Values {
		fmt.Printf("value %s=%s\n", k, v)
	}
	return nil
}
