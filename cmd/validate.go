package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/outreach/pkg/types"
)

var (
	validateFile   string
	validateTeamID string
	validateOffset int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Score and repair a list of steps",
	Long: `Score every step in a JSON array of steps, rewrite the ones below the
configured threshold and print the resulting steps. Steps keep their order;
--offset sets the absolute index of the first step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := loadCommandConfig()
		if err != nil {
			return err
		}

		var steps []types.Step
		if err := readRequestFile(validateFile, &steps); err != nil {
			return err
		}
		if len(steps) == 0 {
			return fmt.Errorf("%s contains no steps", validateFile)
		}

		pipeline, err := buildPipeline(cc, nil)
		if err != nil {
			return err
		}

		out, err := pipeline.Validator.ValidateSteps(cmd.Context(), steps, validateTeamID, validateOffset)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Steps JSON file (- for stdin)")
	validateCmd.Flags().StringVar(&validateTeamID, "team", "", "Team id sent to the scorer")
	validateCmd.Flags().IntVar(&validateOffset, "offset", 0, "Absolute index of the first step")
	_ = validateCmd.MarkFlagRequired("file")
}
