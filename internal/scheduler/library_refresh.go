package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// LibraryRefresher reloads the library from the API.
type LibraryRefresher interface {
	RefreshLibrary(ctx context.Context) ([]entities.Selection, error)
}

// SessionChecker reports whether a user is signed in.
type SessionChecker interface {
	IsAuthenticated() bool
}

// Persister saves state after a successful refresh.
type Persister interface {
	Persist(ctx context.Context) error
}

const refreshTimeout = 2 * time.Minute

// LibraryRefreshScheduler periodically re-fetches the library while a user
// is signed in.
type LibraryRefreshScheduler struct {
	cfg       config.LibraryRefresh
	library   LibraryRefresher
	session   SessionChecker
	persister Persister
	logger    *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
	stopped    chan struct{}
	background sync.WaitGroup
}

// NewLibraryRefreshScheduler builds a scheduler. persister and logger may be nil.
func NewLibraryRefreshScheduler(cfg config.LibraryRefresh, library LibraryRefresher, session SessionChecker, persister Persister, logger *zap.Logger) *LibraryRefreshScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryRefreshScheduler{
		cfg:       cfg,
		library:   library,
		session:   session,
		persister: persister,
		logger:    logger,
		cron:      cron.New(cron.WithParser(scheduleParser)),
	}
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// Start schedules the job when refreshing is enabled. The scheduler stops
// when ctx is done.
func (s *LibraryRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		s.logger.Info("library refresh scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.runRefresh)
	if err != nil {
		return fmt.Errorf("failed to schedule library refresh: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	s.stopped = make(chan struct{})

	s.logger.Info("library refresh scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.Time("next_run", s.cron.Entry(entryID).Next),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running refresh to finish. Concurrent callers all
// return only after the scheduler has fully stopped.
func (s *LibraryRefreshScheduler) Stop() {
	s.mu.Lock()
	stopped := s.stopped
	if !s.isRunning {
		s.mu.Unlock()
		if stopped != nil {
			<-stopped
		}
		s.background.Wait()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.background.Wait()
	if cancel != nil {
		cancel()
	}
	close(stopped)
	s.logger.Info("library refresh scheduler stopped")
}

// RunNow triggers an immediate refresh in the background. Stop waits for it.
func (s *LibraryRefreshScheduler) RunNow() {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.runRefresh()
	}()
}

// IsRunning reports whether the cron job is scheduled.
func (s *LibraryRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing reports whether a refresh is in progress.
func (s *LibraryRefreshScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// NextRunTime returns nil when the scheduler is not running.
func (s *LibraryRefreshScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *LibraryRefreshScheduler) runRefresh() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		s.logger.Info("library refresh skipped, already running")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	if !s.session.IsAuthenticated() {
		s.logger.Debug("library refresh skipped, not signed in")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	selections, err := s.library.RefreshLibrary(ctx)
	if err != nil {
		s.logger.Warn("library refresh failed", zap.Error(err))
		return
	}

	if s.persister != nil {
		if err := s.persister.Persist(ctx); err != nil {
			s.logger.Warn("failed to persist refreshed library", zap.Error(err))
		}
	}

	s.logger.Info("library refreshed",
		zap.Int("books", len(selections)),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
}
