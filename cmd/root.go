package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "outreach",
	Short: "AI-powered outreach campaign generator",
	Long: `Outreach generates multi-step outreach campaigns (email, LinkedIn, phone call)
with a language model, scores every step with a content-quality service and
rewrites the steps that fail.

Available commands:
  serve       - HTTP and websocket server that accepts campaign jobs
  worker      - Kafka consumer that runs queued jobs
  generate    - Generate a campaign from a request file
  regenerate  - Rewrite a single campaign step from a request file
  validate    - Score and repair a list of steps`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.outreach/config.json, then ~/.outreach/config.json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(validateCmd)
}
