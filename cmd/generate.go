package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/outreach/pkg/campaign"
)

var (
	generateFile   string
	generateUserID string
	generateTeamID string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a campaign from a request file",
	Long: `Run the campaign pipeline once and print the validated campaign as JSON.
The request file uses the same JSON shape as POST /api/campaign; pass -f - to
read it from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := loadCommandConfig()
		if err != nil {
			return err
		}

		var req campaign.Request
		if err := readRequestFile(generateFile, &req); err != nil {
			return err
		}

		pipeline, err := buildPipeline(cc, nil)
		if err != nil {
			return err
		}

		result, err := pipeline.Generator.Generate(cmd.Context(), generateUserID, generateTeamID, &req)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("generation timed out, nothing was produced")
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var (
	regenerateFile   string
	regenerateUserID string
	regenerateTeamID string
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Rewrite one campaign step from a request file",
	Long: `Rewrite a single step and print it as JSON. The request file uses the same
JSON shape as POST /api/campaign/regenerate; the step is taken from the
"-step<N>" suffix of messageId.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := loadCommandConfig()
		if err != nil {
			return err
		}

		var req campaign.RegenerateRequest
		if err := readRequestFile(regenerateFile, &req); err != nil {
			return err
		}

		pipeline, err := buildPipeline(cc, nil)
		if err != nil {
			return err
		}

		step, err := pipeline.Regenerator.Regenerate(cmd.Context(), regenerateUserID, regenerateTeamID, &req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), step)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Request JSON file (- for stdin)")
	generateCmd.Flags().StringVar(&generateUserID, "user", "", "User id for locale and tone lookups")
	generateCmd.Flags().StringVar(&generateTeamID, "team", "", "Team id sent to the scorer")
	_ = generateCmd.MarkFlagRequired("file")

	regenerateCmd.Flags().StringVarP(&regenerateFile, "file", "f", "", "Request JSON file (- for stdin)")
	regenerateCmd.Flags().StringVar(&regenerateUserID, "user", "", "User id")
	regenerateCmd.Flags().StringVar(&regenerateTeamID, "team", "", "Team id sent to the scorer")
	_ = regenerateCmd.MarkFlagRequired("file")
}
