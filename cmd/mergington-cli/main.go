// Mergington CLI — инструмент командной строки для работы со списками
// участников занятий через HTTP API.
//
// Использование:
//
//	mergington [--api-url URL] [--json] activity <subcommand> [flags]
//
// Команды:
//
//	activity list                        Список занятий
//	activity show NAME                   Занятие и его участники
//	activity signup NAME --email EMAIL   Записать студента
//	activity remove NAME --email EMAIL   Удалить студента
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Mergington/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "mergington",
		Short:         "Mergington CLI — extracurricular activity rosters",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := "http://localhost:8080"
	if v := os.Getenv("MERGINGTON_API_URL"); v != "" {
		defaultURL = v
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(cli.NewActivityCmd(clientFn, outputFn))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
