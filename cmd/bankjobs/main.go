package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/core/services"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/middleware"
	"github.com/sibgate/bankcore/internal/repositories/database/pgsql"
	"github.com/sibgate/bankcore/pkg/config"
	"github.com/sibgate/bankcore/pkg/database"
)

// batchOperator is stamped on audit fields for everything the jobs touch.
const batchOperator = "batch"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos)

	var runErr error
	switch os.Args[1] {
	case "accrue-interest":
		runErr = runAccrueInterest(ctx, logger, container, os.Args[2:])
	case "daily-sweep":
		runErr = runDailySweep(ctx, logger, container, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error("Job failed", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: bankjobs <command> [flags]

Commands:
  accrue-interest   Accrue deposit interest for one date
                    [--date YYYY-MM-DD] [--dry-run] [--deposit-id ID]
  daily-sweep       Run the daily credit and deposit servicing sweep
                    [--date YYYY-MM-DD] [--task overdue|penalty|maturity|all] [--dry-run]`)
}

func parseDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}

func runAccrueInterest(ctx context.Context, logger *slog.Logger, container *portssvc.ServiceContainer, args []string) error {
	fs := flag.NewFlagSet("accrue-interest", flag.ExitOnError)
	dateStr := fs.String("date", "", "accrual date (YYYY-MM-DD), defaults to today")
	dryRun := fs.Bool("dry-run", false, "compute without persisting")
	depositID := fs.String("deposit-id", "", "accrue a single deposit instead of all active ones")
	if err := fs.Parse(args); err != nil {
		return err
	}

	asOf, err := parseDateFlag(*dateStr)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	if *depositID != "" {
		payment, err := container.Deposit.AccrueInterest(ctx, *depositID, asOf, *dryRun, batchOperator)
		if err != nil {
			return err
		}
		if payment == nil {
			logger.Info("Nothing to accrue for deposit", slog.String("deposit_id", *depositID))
			return nil
		}
		logger.Info("Interest accrued",
			slog.String("deposit_id", *depositID),
			slog.String("amount", payment.Amount.String()),
			slog.Bool("dry_run", *dryRun))
		return nil
	}

	result, err := container.Deposit.RunDailyAccrual(ctx, asOf, *dryRun, batchOperator)
	if err != nil {
		return err
	}
	logBatchResult(logger, "deposit interest accrual", result)
	return nil
}

func runDailySweep(ctx context.Context, logger *slog.Logger, container *portssvc.ServiceContainer, args []string) error {
	fs := flag.NewFlagSet("daily-sweep", flag.ExitOnError)
	dateStr := fs.String("date", "", "sweep date (YYYY-MM-DD), defaults to today")
	task := fs.String("task", "all", "which sweep to run: overdue, penalty, maturity or all")
	dryRun := fs.Bool("dry-run", false, "compute without persisting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	asOf, err := parseDateFlag(*dateStr)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	runOverdue := *task == "all" || *task == "overdue"
	runPenalty := *task == "all" || *task == "penalty"
	runMaturity := *task == "all" || *task == "maturity"
	if !runOverdue && !runPenalty && !runMaturity {
		return fmt.Errorf("unknown --task %q", *task)
	}

	if runOverdue {
		result, err := container.Credit.RunOverdueSweep(ctx, asOf, *dryRun, batchOperator)
		if err != nil {
			return err
		}
		logBatchResult(logger, "overdue sweep", result)
	}
	if runPenalty {
		result, err := container.Credit.RunPenaltyAccrual(ctx, asOf, *dryRun, batchOperator)
		if err != nil {
			return err
		}
		logBatchResult(logger, "penalty accrual", result)
	}
	if runMaturity {
		result, err := container.Deposit.RunMaturityCheck(ctx, asOf, *dryRun, batchOperator)
		if err != nil {
			return err
		}
		logBatchResult(logger, "deposit maturity check", result)
	}
	return nil
}

func logBatchResult(logger *slog.Logger, job string, result *dto.BatchRunResult) {
	logger.Info("Batch job finished",
		slog.String("job", job),
		slog.Int("processed", result.Processed),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
		slog.Bool("dry_run", result.DryRun))
}
