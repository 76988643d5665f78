package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "go-donorsync/internal/common/models"
	"go-donorsync/internal/config"
	"go-donorsync/internal/features/audit"
	"go-donorsync/internal/features/reconcile"
	"go-donorsync/internal/platform"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PlatformLister is the slice of the platform API the backfill needs
type PlatformLister interface {
	ListCampaigns(ctx context.Context, cursor string) (*platform.CampaignPage, error)
	ListContacts(ctx context.Context, cursor string) (*platform.ContactPage, error)
	ListPlans(ctx context.Context, cursor string) (*platform.PlanPage, error)
	ListTransactions(ctx context.Context, cursor string) (*platform.TransactionPage, error)
	ListTickets(ctx context.Context, cursor string) (*platform.TicketPage, error)
	GetTransaction(ctx context.Context, id string) (*platform.Transaction, error)
}

type SyncService interface {
	RunFullSync(ctx context.Context, trigger string) (*SyncRun, error)
	ListRuns(ctx context.Context, limit int64) ([]SyncRun, error)
	StartScheduler() error
	StopScheduler()
}

type SyncServiceImpl struct {
	Repo         SyncRunRepository
	Platform     PlatformLister
	Reconciler   reconcile.ReconcileService
	AuditService audit.AuditService
	Logger       *zap.Logger

	schedule  string
	scheduler *cron.Cron
	mu        sync.Mutex
}

func NewSyncService(repo SyncRunRepository, platformClient *platform.Client, reconciler reconcile.ReconcileService, auditService audit.AuditService, cfg *config.Config, logger *zap.Logger) SyncService {
	return &SyncServiceImpl{
		Repo:         repo,
		Platform:     platformClient,
		Reconciler:   reconciler,
		AuditService: auditService,
		Logger:       logger,
		schedule:     cfg.SyncSchedule,
	}
}

type resourceOutcome struct {
	name   string
	result ResourceResult
}

// RunFullSync pages every platform resource type through the reconciler.
// Resource types run as independent concurrent tasks; within one type,
// pagination is strictly sequential because each page's cursor comes from
// the prior response. One type failing never aborts the others.
func (s *SyncServiceImpl) RunFullSync(ctx context.Context, trigger string) (*SyncRun, error) {
	run := &SyncRun{
		StartTime: time.Now(),
		Status:    "in_progress",
		Trigger:   trigger,
		Resources: make(map[string]ResourceResult),
	}
	if err := s.Repo.Create(ctx, run); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSync, "sync_runs", run.ID.Hex(), map[string]common_models.Change{
		"status": {New: "started"},
	})

	tasks := map[string]func(context.Context) ResourceResult{
		"campaigns":    s.syncCampaigns,
		"contacts":     s.syncContacts,
		"plans":        s.syncPlans,
		"transactions": s.syncTransactions,
		"tickets":      s.syncTickets,
	}

	results := make(chan resourceOutcome, len(tasks))
	var wg sync.WaitGroup
	for name, task := range tasks {
		wg.Add(1)
		go func(name string, task func(context.Context) ResourceResult) {
			defer wg.Done()
			results <- resourceOutcome{name: name, result: task(ctx)}
		}(name, task)
	}
	wg.Wait()
	close(results)

	run.Status = "success"
	for outcome := range results {
		run.Resources[outcome.name] = outcome.result
		if outcome.result.Error != "" {
			run.Status = "failed"
		}
	}
	run.EndTime = time.Now()

	if err := s.Repo.Update(ctx, run); err != nil {
		return run, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionSync, "sync_runs", run.ID.Hex(), map[string]common_models.Change{
		"status": {New: run.Status},
	})

	return run, nil
}

func (s *SyncServiceImpl) ListRuns(ctx context.Context, limit int64) ([]SyncRun, error) {
	return s.Repo.List(ctx, limit)
}

func (s *SyncServiceImpl) syncCampaigns(ctx context.Context) ResourceResult {
	var result ResourceResult
	cursor := ""
	for {
		page, err := s.Platform.ListCampaigns(ctx, cursor)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		for i := range page.Data {
			if _, err := s.Reconciler.ReconcileCampaign(ctx, &page.Data[i]); err != nil {
				result.Failed++
				s.Logger.Error("campaign reconcile failed",
					zap.Int64("platform_campaign_id", page.Data[i].ID),
					zap.Error(err))
				continue
			}
			result.Processed++
		}
		if page.Links.Next == nil || *page.Links.Next == "" {
			return result
		}
		cursor = *page.Links.Next
	}
}

func (s *SyncServiceImpl) syncContacts(ctx context.Context) ResourceResult {
	var result ResourceResult
	cursor := ""
	for {
		page, err := s.Platform.ListContacts(ctx, cursor)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		for i := range page.Data {
			if _, err := s.Reconciler.ReconcileContact(ctx, nil, &page.Data[i]); err != nil {
				result.Failed++
				s.Logger.Error("contact reconcile failed",
					zap.Int64("platform_contact_id", page.Data[i].ID),
					zap.Error(err))
				continue
			}
			result.Processed++
		}
		if page.Links.Next == nil || *page.Links.Next == "" {
			return result
		}
		cursor = *page.Links.Next
	}
}

func (s *SyncServiceImpl) syncPlans(ctx context.Context) ResourceResult {
	var result ResourceResult
	cursor := ""
	for {
		page, err := s.Platform.ListPlans(ctx, cursor)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		for i := range page.Data {
			if _, err := s.Reconciler.ReconcilePlan(ctx, &page.Data[i]); err != nil {
				result.Failed++
				s.Logger.Error("plan reconcile failed",
					zap.String("plan_id", page.Data[i].ID),
					zap.Error(err))
				continue
			}
			result.Processed++
		}
		if page.Links.Next == nil || *page.Links.Next == "" {
			return result
		}
		cursor = *page.Links.Next
	}
}

func (s *SyncServiceImpl) syncTransactions(ctx context.Context) ResourceResult {
	var result ResourceResult
	cursor := ""
	for {
		page, err := s.Platform.ListTransactions(ctx, cursor)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		for i := range page.Data {
			if _, err := s.Reconciler.ReconcileTransaction(ctx, &page.Data[i], nil); err != nil {
				result.Failed++
				s.Logger.Error("transaction reconcile failed",
					zap.String("transaction_id", page.Data[i].ID),
					zap.Error(err))
				continue
			}
			result.Processed++
		}
		if page.Links.Next == nil || *page.Links.Next == "" {
			return result
		}
		cursor = *page.Links.Next
	}
}

// syncTickets re-syncs each ticket's owning transaction. Duplicate
// transaction ids across tickets are harmless: reconciliation is idempotent.
func (s *SyncServiceImpl) syncTickets(ctx context.Context) ResourceResult {
	var result ResourceResult
	seen := make(map[string]bool)
	cursor := ""
	for {
		page, err := s.Platform.ListTickets(ctx, cursor)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		for i := range page.Data {
			txID := page.Data[i].TransactionID
			if txID == "" || seen[txID] {
				continue
			}
			seen[txID] = true

			tx, err := s.Platform.GetTransaction(ctx, txID)
			if err != nil {
				result.Failed++
				s.Logger.Error("ticket transaction fetch failed",
					zap.String("ticket_id", page.Data[i].ID),
					zap.String("transaction_id", txID),
					zap.Error(err))
				continue
			}
			if _, err := s.Reconciler.ReconcileTransaction(ctx, tx, nil); err != nil {
				result.Failed++
				s.Logger.Error("ticket transaction reconcile failed",
					zap.String("transaction_id", txID),
					zap.Error(err))
				continue
			}
			result.Processed++
		}
		if page.Links.Next == nil || *page.Links.Next == "" {
			return result
		}
		cursor = *page.Links.Next
	}
}

// StartScheduler registers the cron-driven full sync when a schedule is
// configured
func (s *SyncServiceImpl) StartScheduler() error {
	if s.schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.schedule, func() {
		if _, err := s.RunFullSync(context.Background(), "cron"); err != nil {
			s.Logger.Error("scheduled sync failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.Logger.Info("sync scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *SyncServiceImpl) StopScheduler() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
