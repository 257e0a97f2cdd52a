package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/classify"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/document"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/export"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/ingest"
	processor "github.com/Dnyaneshwarigund12/Invoice-extraction/internal/pipeline"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/profiles"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/tables"
)

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd, args)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "err", err)
		return err
	}
	for _, dir := range []string{cfg.Input.Dir, cfg.Output.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("config.mkdir_failed", "dir", dir, "err", err)
			return common.NewAppError(common.CodeConfig, "create "+dir, err)
		}
	}

	reg, err := loadProfiles(cfg)
	if err != nil {
		logger.Error("profiles.invalid", "file", cfg.Profiles.File, "err", err)
		return err
	}

	ctx := cmd.Context()
	if err := runOnce(ctx, cfg, reg, logger); err != nil {
		return err
	}
	if !cfg.Input.Watch {
		return nil
	}

	changed, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:    []string{cfg.Input.Dir},
		Debounce: cfg.Input.Debounce,
	}, logger)
	if err != nil {
		logger.Error("ingest.watch.failed", "dir", cfg.Input.Dir, "err", err)
		return err
	}
	logger.Info("ingest.watch.started", "dir", cfg.Input.Dir, "debounce", cfg.Input.Debounce.String())
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changed:
			if !ok {
				return nil
			}
			if err := runOnce(ctx, cfg, reg, logger); err != nil {
				// keep watching; the next change may be saveable
				logger.Error("batch.failed", "err", err)
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warn("ingest.watch.error", "err", err)
		}
	}
}

func loadProfiles(cfg *common.Config) (*profiles.Registry, error) {
	if cfg.Profiles.File == "" {
		return profiles.Default()
	}
	reg, err := profiles.LoadFile(cfg.Profiles.File)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "profiles "+cfg.Profiles.File, err)
	}
	return reg, nil
}

// runOnce processes one batch and saves the workbook. Only a failed save is
// returned as an error; per-document problems end up in the summary sheet.
func runOnce(ctx context.Context, cfg *common.Config, reg *profiles.Registry, logger *slog.Logger) error {
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID)

	paths, err := ingest.Inputs(ingest.Source{Dir: cfg.Input.Dir, Files: cfg.Input.Files, Scan: cfg.Input.Scan})
	if err != nil {
		logger.Error("ingest.inputs.failed", "dir", cfg.Input.Dir, "err", err)
		return common.WrapError(err, "list inputs")
	}

	opener := document.NewOpener(document.Config{
		Engine:    cfg.Text.Engine,
		Pdftotext: cfg.Text.Pdftotext,
	}, logger)
	open := func(ctx context.Context, path string) (processor.Handle, error) {
		doc, err := opener.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}

	wb, err := export.NewWorkbook(runID, logger)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	p := processor.NewProcessor(logger,
		open,
		classify.NewClassifier(reg, classify.FileSink{Dir: cfg.Output.Dir}, logger),
		reg,
		tables.NewReconstructor(reg.Fallback(), logger),
		wb,
	)
	_, stats, runErr := p.Run(ctx, paths)
	if runErr != nil {
		logger.Warn("batch.interrupted", "run_id", runID.String(), "err", runErr)
	}

	out := cfg.WorkbookPath()
	if err := wb.Save(out); err != nil {
		logger.Error("batch.save_failed", "run_id", runID.String(), "path", out, "err", err)
		return err
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", stats.Total())
	fmt.Printf("- Processed: %d\n", stats.Processed)
	fmt.Printf("- No table data: %d\n", stats.NoTableData)
	fmt.Printf("- Unrecognized: %d\n", stats.Unrecognized)
	fmt.Printf("- Missing: %d\n", stats.Missing)
	fmt.Printf("- Errors: %d\n", stats.Errors)
	fmt.Printf("- Output: %s\n", out)
	return nil
}
