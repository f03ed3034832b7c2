package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"household/internal/domain/analysis"
	"household/internal/domain/ledger"
	"household/internal/infrastructure/amqp"
	"household/internal/infrastructure/postgres"
	"household/internal/shared/config"
	"household/internal/shared/logger"
)

const usage = `Household Admin CLI - Management commands for the household ledger

Usage:
  admin <command> [options]

Commands:
  migrate      Apply pending database migrations
  version      Print the applied schema version
  analyze      Generate spending analyses for the current period
  reconcile    Compare stored account balances with their transaction history

Examples:
  # Apply migrations
  admin migrate

  # Weekly and monthly analyses for one user
  admin analyze --user-id=1

  # Monthly analyses for every active user
  admin analyze --all --type=monthly --workers=8

  # Report balance drift on every account
  admin reconcile --all

  # Rewrite a drifted balance after confirmation
  admin reconcile --account-id=7f1c2a3e-8b4d-4c5e-9f60-112233445566 --fix
`

const defaultWorkers = 4

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "migrate":
		err = runMigrate(cfg)
	case "version":
		err = runVersion(cfg)
	case "analyze":
		err = runAnalyze(cfg, args)
	case "reconcile":
		err = runReconcile(cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Fatal(command+" failed", "err", err)
	}
}

func runMigrate(cfg *config.Config) error {
	if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func runVersion(cfg *config.Config) error {
	version, dirty, err := postgres.MigrationVersion(cfg.Database.URL())
	if err != nil {
		return err
	}
	fmt.Printf("schema version: %d", version)
	if dirty {
		fmt.Print(" (dirty)")
	}
	fmt.Println()
	return nil
}

func runAnalyze(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	userIDStr := fs.String("user-id", "", "User ID(s) to analyze (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Analyze every active user")
	typeStr := fs.String("type", "both", "weekly, monthly or both")
	workers := fs.Int("workers", defaultWorkers, "Number of concurrent workers")
	timeout := fs.Duration("timeout", 30*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin analyze [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userIDStr == "" && !*allUsers {
		fmt.Println("Error: must specify --user-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	if *workers < 1 {
		*workers = 1
	}

	types, err := analysis.ParseTypes(*typeStr)
	if err != nil {
		return err
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var publisher analysis.EventPublisher = postgres.NewNotifyPublisher(db)
	if cfg.AMQP.Enabled() {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
	}

	userRepo := postgres.NewUserRepository(db)
	service := analysis.NewService(postgres.NewAnalysisRepository(db), userRepo, publisher, cfg.Analysis.Location)

	var userIDs []int64
	if *allUsers {
		users, err := userRepo.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		for _, u := range users {
			userIDs = append(userIDs, u.ID)
		}
	} else {
		userIDs, err = parseUserIDs(*userIDStr)
		if err != nil {
			return err
		}
	}

	if len(userIDs) == 0 {
		log.Info("no users to process")
		return nil
	}

	log.Info("starting analysis", "users", len(userIDs), "types", *typeStr, "workers", *workers)
	startTime := time.Now()

	var (
		mu     sync.Mutex
		totals analysis.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for _, id := range userIDs {
		g.Go(func() error {
			result, err := service.GenerateForUser(gctx, id, types)

			mu.Lock()
			defer mu.Unlock()
			totals.Users++
			if err != nil {
				totals.Errors = append(totals.Errors, fmt.Errorf("user %d: %w", id, err))
				return nil
			}
			totals.Created += result.Created
			totals.Updated += result.Updated
			totals.Errors = append(totals.Errors, result.Errors...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printAnalyzeResult(&totals)
	log.Info("analysis completed", "elapsed", time.Since(startTime))
	return totals.Err()
}

func printAnalyzeResult(result *analysis.Result) {
	fmt.Printf("\n=== Analysis ===\n")
	fmt.Printf("  Users processed:   %d\n", result.Users)
	fmt.Printf("  Analyses created:  %d\n", result.Created)
	fmt.Printf("  Analyses updated:  %d\n", result.Updated)

	if len(result.Errors) > 0 {
		fmt.Printf("  Errors:            %d\n", len(result.Errors))
		for i, e := range result.Errors {
			if i >= 5 {
				fmt.Printf("    ... and %d more errors\n", len(result.Errors)-5)
				break
			}
			fmt.Printf("    - %s\n", e)
		}
	}
}

func runReconcile(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)

	accountIDStr := fs.String("account-id", "", "Account ID(s) to check (comma-separated for multiple)")
	allAccounts := fs.Bool("all", false, "Check every account, deactivated ones included")
	fix := fs.Bool("fix", false, "Rewrite drifted balances after confirmation")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	timeout := fs.Duration("timeout", 30*time.Minute, "Timeout for the operation (e.g., 5m, 1h)")

	fs.Usage = func() {
		fmt.Println("Usage: admin reconcile [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *accountIDStr == "" && !*allAccounts {
		fmt.Println("Error: must specify --account-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	accountRepo := postgres.NewAccountRepository(db)
	engine := ledger.NewEngine(postgres.NewLedgerStore(db), postgres.NewTransactionRepository(db), ledger.Config{
		OpTimeout:       cfg.Ledger.OpTimeout,
		DefaultCurrency: cfg.Ledger.DefaultCurrency,
	})

	var accountIDs []string
	if *allAccounts {
		accountIDs, err = accountRepo.ListIDs(ctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
	} else {
		accountIDs = splitIDs(*accountIDStr)
	}

	// Report first; balances are only rewritten after the operator agrees.
	var drifted []*ledger.Drift
	for _, id := range accountIDs {
		d, err := engine.Reconcile(ctx, id, false)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", id, err)
		}
		if !d.InSync() {
			drifted = append(drifted, d)
		}
	}

	fmt.Printf("\n=== Reconcile ===\n")
	fmt.Printf("  Accounts checked:  %d\n", len(accountIDs))
	fmt.Printf("  Drifted:           %d\n", len(drifted))
	for _, d := range drifted {
		fmt.Printf("    - %s stored=%s computed=%s\n", d.AccountID, d.Stored.StringFixed(2), d.Computed.StringFixed(2))
	}

	if !*fix || len(drifted) == 0 {
		return nil
	}

	if !*yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Rewrite %d drifted balance(s) to their computed value?", len(drifted))).
			Affirmative("Rewrite").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation: %w", err)
		}
		if !confirmed {
			log.Info("no balances changed")
			return nil
		}
	}

	fixed := 0
	for _, d := range drifted {
		// Recomputed under the row lock; the balance may have moved since the report.
		res, err := engine.Reconcile(ctx, d.AccountID, true)
		if err != nil {
			return fmt.Errorf("fix %s: %w", d.AccountID, err)
		}
		if res.Fixed {
			fixed++
			log.Info("balance rewritten", "account_id", res.AccountID, "from", res.Stored.StringFixed(2), "to", res.Computed.StringFixed(2))
		}
	}
	log.Info("reconcile completed", "fixed", fixed)
	return nil
}

func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, p := range splitIDs(s) {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID '%s': %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitIDs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
