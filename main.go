// main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"compreg/internal/billing"
	"compreg/internal/catalog"
	"compreg/internal/config"
	"compreg/internal/data"
	"compreg/internal/logger"
	"compreg/internal/pipeline"
	"compreg/internal/table"
	"compreg/internal/validate"
)

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()

	// Step 2: Setup logging
	loggerConfig := config.LoggerConfig()
	if err := logger.SetupLogger(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Only NOW is logging safe to use!
	config.ConfigurePaths()
	logger.LogInfo("Environment and paths loaded. Logger ready.")

	// Step 3: Load billing configuration
	if err := config.LoadBillingConfig(); err != nil {
		logger.LogFatal("Failed to load billing config: %v", err)
	}

	// Step 4: Load choice catalogs
	cat := catalog.Default()
	if path := config.CatalogPath(); path != "" {
		var err error
		if cat, err = catalog.LoadFile(path); err != nil {
			logger.LogFatal("Failed to load catalog: %v", err)
		}
	}

	// Step 5: Open the run ledger, when configured
	ledger := config.LedgerPath() != ""
	if ledger {
		if err := data.InitDB(config.LedgerPath()); err != nil {
			logger.LogFatal("Failed to open ledger: %v", err)
		}
		defer data.CloseDB()
		if err := data.CreateTables(); err != nil {
			logger.LogFatal("Failed to prepare ledger schema: %v", err)
		}
	}

	// Step 6: Read the two rosters
	teacherTable, err := table.ReadFile(config.TeacherRosterPath())
	if err != nil {
		logger.LogFatal("Failed to read teacher roster: %v", err)
	}
	teamTable, err := table.ReadFile(config.TeamRosterPath())
	if err != nil {
		logger.LogFatal("Failed to read team roster: %v", err)
	}

	// Step 7: Run the batch
	startedAt := time.Now()
	var runID string
	if ledger {
		if runID, err = data.BeginRun(startedAt); err != nil {
			logger.LogFatal("Failed to record run: %v", err)
		}
	}

	composer := &billing.Composer{
		From:   config.InvoiceIssuer(),
		Logo:   config.InvoiceLogoURL(),
		Prefix: config.InvoicePrefix(),
		Notes:  config.InvoiceNotes(),
		Pricing: billing.Pricing{
			StandardRate: config.StandardChallengeRate(),
			MultiRate:    config.MultiChallengeRate(),
			SliceRate:    config.LunchSliceRate(),
		},
		Seq: billing.NewSequence(config.InvoiceSeqStart(), 4),
		Renderer: &billing.HTTPRenderer{
			Endpoint: config.RendererEndpoint(),
			APIKey:   config.RendererAPIKey(),
		},
	}

	result, runErr := pipeline.Run(context.Background(), teacherTable, teamTable, pipeline.Options{
		Catalog:    cat,
		OutputDir:  config.ReportsDirectory(),
		Billing:    true,
		BillingDir: config.BillingDirectory(),
		Composer:   composer,
	})

	// Step 8: Record the outcome
	if ledger {
		status := "completed"
		if runErr != nil {
			status = "failed"
		}
		var rec data.RunRecord
		if result != nil {
			rec.TeacherRows = result.TeacherRows
			rec.TeamRows = result.TeamRows
			if result.Graph != nil {
				for _, grp := range result.Graph.Groups() {
					rec.GroupCount++
					rec.StudentCount += grp.Rates.Students
				}
			}
		}
		if err := data.CompleteRun(runID, rec, status, time.Now()); err != nil {
			logger.LogError("Failed to record run outcome: %v", err)
		}
		if result != nil {
			for _, inv := range result.Invoices {
				if err := data.InsertInvoice(data.InvoiceRecord{
					Number:   inv.Number,
					RunID:    runID,
					Group:    inv.Group,
					Total:    inv.Total,
					IssuedAt: time.Now(),
				}); err != nil {
					logger.LogError("Failed to record invoice %s: %v", inv.Number, err)
				}
			}
		}
	}

	if runErr != nil {
		var mismatch *validate.MismatchError
		if errors.As(runErr, &mismatch) {
			logger.LogError("The following emails from the team registration form did not match any teacher registration email:")
			for _, email := range mismatch.Emails {
				logger.LogError("  %s", email)
			}
			os.Exit(1)
		}
		logger.LogFatal("Run failed: %v", runErr)
	}

	logger.LogInfo("Run complete: %d report(s), %d invoice(s) in %v",
		len(result.ReportFiles), len(result.Invoices), time.Since(startedAt).Round(time.Millisecond))
}
