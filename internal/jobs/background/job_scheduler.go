package background

import (
	"context"
	"log"
	"sync"
	"time"

	"koperasimart/internal/caching"
	"koperasimart/internal/config"
	"koperasimart/internal/jobs"
	"koperasimart/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

const snapshotTTL = 15 * time.Minute

// JobScheduler manages background jobs for distributed environment
type JobScheduler struct {
	scheduler  gocron.Scheduler
	alertSvc   *jobs.StockAlertService
	cacheSvc   caching.CacheService
	barangRepo repositories.BarangRepository
	jobsCfg    config.JobsConfig
	jobJobs    map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(alertSvc *jobs.StockAlertService, cacheSvc caching.CacheService, barangRepo repositories.BarangRepository, jobsCfg config.JobsConfig) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		alertSvc:   alertSvc,
		cacheSvc:   cacheSvc,
		barangRepo: barangRepo,
		jobsCfg:    jobsCfg,
		jobJobs:    make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Duration(js.jobsCfg.StockAlertIntervalMinutes)*time.Minute),
		gocron.NewTask(js.alertSvc.ScheduledLowStockCheck, context.Background()),
		gocron.WithName("stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stock alerts job: %v", err)
	} else {
		js.jobJobs["stock-alerts"] = alertsJob
	}

	// Keeps the barang snapshots the query engine reads from hot across
	// restarts and TTL expiries.
	warmupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Duration(js.jobsCfg.SnapshotWarmupIntervalMinutes)*time.Minute),
		gocron.NewTask(js.warmBarangSnapshots, context.Background()),
		gocron.WithName("snapshot-warmup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create snapshot warmup job: %v", err)
	} else {
		js.jobJobs["snapshot-warmup"] = warmupJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// warmBarangSnapshots refreshes the per-tenant barang snapshot cache so the
// first query after a TTL expiry does not pay the full database read.
func (js *JobScheduler) warmBarangSnapshots(ctx context.Context) error {
	log.Printf("Starting barang snapshot warmup")

	tenantIDs, err := js.barangRepo.ListTenantIDs(ctx)
	if err != nil {
		log.Printf("Failed to list tenants for snapshot warmup: %v", err)
		return err
	}

	// Limit to 5 concurrent tenants.
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, tenantID := range tenantIDs {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			items, err := js.barangRepo.List(ctx, tenantID)
			if err != nil {
				log.Printf("Failed to load barang snapshot for tenant %s: %v", tenantID.String(), err)
				return
			}
			if err := js.cacheSvc.SetBarangSnapshot(ctx, tenantID, items, snapshotTTL); err != nil {
				log.Printf("Failed to warm barang snapshot for tenant %s: %v", tenantID.String(), err)
			}
		}(tenantID)
	}

	wg.Wait()
	log.Printf("Completed barang snapshot warmup for %d tenants", len(tenantIDs))
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)

	if err != nil {
		return err
	}

	js.jobJobs[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobJobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobJobs, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobJobs)
	jobs := make([]string, 0, len(js.jobJobs))

	for name := range js.jobJobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}
