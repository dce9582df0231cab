package background

import (
	"context"
	"log"
	"time"

	"sewlovely/internal/caching"
	"sewlovely/internal/jobs"
	"sewlovely/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

const productCatalogTTL = 30 * time.Minute

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler   gocron.Scheduler
	reconciler  *jobs.LedgerReconciler
	cacheSvc    caching.CacheService
	productRepo repositories.ProductRepository
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(reconciler *jobs.LedgerReconciler, cacheSvc caching.CacheService,
	productRepo repositories.ProductRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		reconciler:  reconciler,
		cacheSvc:    cacheSvc,
		productRepo: productRepo,
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Ledger reconciliation - every hour
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.runReconciliation),
		gocron.WithName("ledger-reconciliation"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create reconciliation job: %v", err)
	}

	// Product catalog cache warm - every 30 minutes
	_, err = js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.warmProductCatalog),
		gocron.WithName("product-catalog-warm"),
	)
	if err != nil {
		log.Printf("Failed to create catalog warm job: %v", err)
	}
}

func (js *JobScheduler) runReconciliation() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := js.reconciler.Run(ctx)
	if err != nil {
		log.Printf("Ledger reconciliation failed: %v", err)
		return
	}
	if result.FlaggedWithoutLedgerRow > 0 || result.LedgerRowsWithoutFlag > 0 {
		log.Printf("Ledger reconciliation found mismatches: %d flagged invoices without ledger rows, %d ledger rows without flags",
			result.FlaggedWithoutLedgerRow, result.LedgerRowsWithoutFlag)
	}
}

func (js *JobScheduler) warmProductCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := js.productRepo.List(ctx)
	if err != nil {
		log.Printf("Product catalog warm failed: %v", err)
		return
	}
	if err := js.cacheSvc.SetProductCatalog(ctx, products, productCatalogTTL); err != nil {
		log.Printf("Product catalog cache write failed: %v", err)
	}
}
