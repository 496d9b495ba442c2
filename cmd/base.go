package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/alantheprice/outreach/pkg/apikeys"
	"github.com/alantheprice/outreach/pkg/campaign"
	"github.com/alantheprice/outreach/pkg/config"
	"github.com/alantheprice/outreach/pkg/directory"
	"github.com/alantheprice/outreach/pkg/events"
	"github.com/alantheprice/outreach/pkg/llm"
	"github.com/alantheprice/outreach/pkg/scoring"
	"github.com/alantheprice/outreach/pkg/utils"
	"github.com/alantheprice/outreach/pkg/validation"
)

// Key names looked up through apikeys for the supporting services.
const (
	scorerKeyName    = "scorer"
	directoryKeyName = "directory"
)

// CommandConfig is the loaded configuration shared across commands
type CommandConfig struct {
	Config *config.Config
	Logger *utils.Logger
}

// loadCommandConfig reads and validates the config and prepares the logger.
func loadCommandConfig() (*CommandConfig, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := utils.GetLogger()
	if cfg.JSONLogs {
		logger.SetJSONMode(true)
	}
	return &CommandConfig{Config: cfg, Logger: logger}, nil
}

// Pipeline holds the generation collaborators built from a config.
type Pipeline struct {
	Validator   *validation.Validator
	Generator   *campaign.Generator
	Regenerator *campaign.Regenerator
}

// buildPipeline wires the model, scorer, repair loop and directory together.
// A nil deliverer means results are only returned to the caller.
func buildPipeline(cc *CommandConfig, deliverer events.Deliverer) (*Pipeline, error) {
	cfg, logger := cc.Config, cc.Logger

	model, err := llm.NewGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts := llm.DefaultOptions(cfg)

	scorerKey, _ := apikeys.GetAPIKey(scorerKeyName)
	checker := scoring.NewAdapter(scoring.NewHTTPScorer(cfg.ScorerURL, scorerKey, cfg.Timeout()), logger)
	repairer := validation.NewRepairer(model, opts, cfg.RepairAttempts, logger)
	validator := validation.NewValidator(checker, repairer, cfg.ScoreThreshold, logger)

	deps := campaign.Deps{
		Model:              model,
		Options:            opts,
		Validator:          validator,
		Deliverer:          deliverer,
		RegenerateAttempts: cfg.RegenerateAttempts,
		Logger:             logger,
	}
	if cfg.DirectoryURL != "" {
		directoryKey, _ := apikeys.GetAPIKey(directoryKeyName)
		deps.Directory = directory.NewClient(cfg.DirectoryURL, directoryKey, cfg.Timeout())
	} else {
		logger.Warnf("directory_url not set: locale defaults to American English and replicateTone is unavailable")
	}

	return &Pipeline{
		Validator:   validator,
		Generator:   campaign.NewGenerator(deps),
		Regenerator: campaign.NewRegenerator(deps),
	}, nil
}

// readRequestFile decodes a JSON file, or stdin when path is "-".
func readRequestFile(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return utils.NewValidationError("request", fmt.Sprintf("invalid JSON in %s: %v", path, err))
	}
	return nil
}

// printJSON writes v to w, indented when w is a terminal.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
