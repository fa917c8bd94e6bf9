package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"javelin/internal/driver"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] manifest.toml...",
	Short: "Resolve the type references declared in classpath manifests",
	Long:  `Resolve loads each TOML classpath manifest and resolves its declared type references into canonical semantic types`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	resolveCmd.Flags().Int("jobs", 0, "number of manifests to resolve in parallel (0 = GOMAXPROCS)")
	resolveCmd.Flags().String("out", "", "write output to a file instead of stdout")
}

func runResolve(cmd *cobra.Command, args []string) (err error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	results, err := driver.ResolveManifests(cmd.Context(), args, driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	out := os.Stdout
	if outPath != "" {
		f, createErr := os.Create(outPath)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		out = f
	}

	switch format {
	case "pretty":
		driver.WriteTable(out, results, useColor(cmd, out))
	case "json":
		if err := driver.EncodeJSON(out, driver.BuildPayload(results)); err != nil {
			return err
		}
	case "msgpack":
		if err := driver.EncodeMsgpack(out, driver.BuildPayload(results)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	for _, mr := range results {
		if mr.Err != nil {
			return fmt.Errorf("%s: %w", mr.Path, mr.Err)
		}
	}
	return nil
}
