package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/conductor/internal/audit"
	"github.com/zero-day-ai/conductor/internal/events"
	"github.com/zero-day-ai/conductor/internal/llm/providers"
	"github.com/zero-day-ai/conductor/internal/orchestrator"
	"github.com/zero-day-ai/conductor/internal/policy"
)

var (
	runMaxIterations int
	runAuditPath     string
)

var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Execute one orchestration run over the given input",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Override the iteration ceiling")
	runCmd.Flags().StringVar(&runAuditPath, "audit", "", "Record the run to this SQLite audit log")
}

func runRun(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	client, err := providers.New(providers.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return err
	}

	options := []orchestrator.Option{
		orchestrator.WithLogger(slog.Default()),
		orchestrator.WithPolicy(policy.New(
			policy.WithConfidenceThreshold(cfg.Orchestrator.ConfidenceThreshold),
		)),
	}

	maxIterations := cfg.Orchestrator.MaxIterations
	if runMaxIterations > 0 {
		maxIterations = runMaxIterations
	}
	if maxIterations > 0 {
		options = append(options, orchestrator.WithMaxIterations(maxIterations))
	}

	auditPath := runAuditPath
	if auditPath == "" && cfg.Audit.Enabled {
		auditPath = cfg.Audit.Path
	}
	if auditPath != "" {
		recorder, err := audit.OpenSQLite(auditPath)
		if err != nil {
			return err
		}
		defer recorder.Close()
		options = append(options, orchestrator.WithRecorder(recorder))
	}

	bus := events.NewBus()
	defer bus.Close()
	options = append(options, orchestrator.WithEventBus(bus))

	if verbose {
		ch, cancel := bus.Subscribe(events.Filter{}, events.DefaultBufferSize)
		defer cancel()
		go func() {
			for event := range ch {
				slog.Debug("event", "type", event.Type, "attrs", event.Attrs)
			}
		}()
	}

	orch := orchestrator.New(client, builtinRegistry(), options...)

	result, err := orch.Run(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
	return nil
}
