package main

import (
	"os"

	"ippo/internal/version"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	envFile      string
	templatePath string
	outputPath   string
)

var rootCmd = &cobra.Command{
	Use:           "ippo",
	Short:         version.AppDescription,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and serve commands until interrupted",
	RunE:  runBot,
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print the markdown command reference",
	Long: `Prints the command reference generated from the registered commands.

With --template the reference is rendered into the template's
{{.CommandSections}} placeholder. With --output the result is written to a
file instead of stdout.`,
	RunE: runDocs,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment from this file instead of .env")
	docsCmd.Flags().StringVar(&templatePath, "template", "", "README template path")
	docsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to this file")

	rootCmd.AddCommand(runCmd, docsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Exited with error")
		os.Exit(1)
	}
}
