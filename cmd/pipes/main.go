package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Import all available adapters to register them
	_ "github.com/ajitpratap0/pipes/pkg/adapter/memory"
	_ "github.com/ajitpratap0/pipes/pkg/adapter/rest"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pipes",
		Short: "pipes - build and inspect pipelines of persistence endpoints",
		Long: `pipes builds pipelines of named pipes from a definition file and lets you
inspect them or read from a pipe. Each pipe is constructed by an adapter
selected by its type ("rest" unless stated otherwise).`,
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pipes v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newAdaptersCmd(), newValidateCmd(), newReadCmd())
	return root
}
