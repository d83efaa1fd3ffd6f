package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"StockPulse/internal/analyzer"
	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/strategy"
)

// Notifier delivers formatted reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist analysis on a cron schedule.
type Scheduler struct {
	Cron         *cron.Cron
	Service      *analyzer.Service
	Notifier     Notifier // optional
	Watchlist    []string
	Period       string
	SkipHolidays bool
	Holidays     []time.Time // extra closures added to every exchange calendar
	Ctx          context.Context
	Now          func() time.Time

	inflight sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *analyzer.Service, n Notifier, watchlist []string, period string, skipHolidays bool) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Service:      svc,
		Notifier:     n,
		Watchlist:    watchlist,
		Period:       period,
		SkipHolidays: skipHolidays,
		Ctx:          ctx,
		Now:          time.Now,
	}
}

// Register adds the watchlist task under the given cron spec (with seconds).
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, func() { s.RunWatchlist() }); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks, RunNow runs
// and command handlers.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.inflight.Wait()
	log.Info("scheduler stopped")
}

// RunNow starts a watchlist run in the background; Stop waits for it.
func (s *Scheduler) RunNow() {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.RunWatchlist()
	}()
}

// RunWatchlist analyses every watchlist symbol that trades today and sends a
// summary. Symbols are analysed concurrently; the engine shares no state.
func (s *Scheduler) RunWatchlist() ([]*model.Analysis, map[string]error) {
	log.Infof("running watchlist analysis (%d symbols)", len(s.Watchlist))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  = make([]*model.Analysis, len(s.Watchlist))
		failures = make(map[string]error)
	)
	for i, sym := range s.Watchlist {
		if s.SkipHolidays {
			normalized := collector.NormalizeSymbol(sym, s.Service.Collector.ExchangeSuffix)
			if !CalendarFor(normalized, s.Holidays...).IsTradingDay(s.Now()) {
				log.Infof("%s: market closed today, skipping", normalized)
				continue
			}
		}
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			a, err := s.Service.Analyze(s.Ctx, sym, s.Period, analyzer.TriggerScheduled)
			if err != nil {
				log.Errorf("analyze %s: %v", sym, err)
				mu.Lock()
				failures[sym] = err
				mu.Unlock()
				return
			}
			results[i] = a
		}(i, sym)
	}
	wg.Wait()

	var done []*model.Analysis
	for _, a := range results {
		if a != nil {
			done = append(done, a)
		}
	}
	if len(done) > 0 || len(failures) > 0 {
		s.trySend(notifier.FormatWatchlistSummary(done, failures))
		for _, a := range done {
			s.trySend(notifier.FormatAnalysisReport(a))
		}
	}
	return done, failures
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	s.inflight.Add(1)
	defer s.inflight.Done()

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/analyze", "/a":
		if len(fields) < 2 {
			return "usage: /analyze SYMBOL [6mo|1y|2y|5y]"
		}
		period := s.Period
		if len(fields) > 2 {
			period = fields[2]
		}
		a, err := s.Service.Analyze(ctx, fields[1], period, analyzer.TriggerCommand)
		if err != nil {
			return replyForError(fields[1], err)
		}
		return notifier.FormatAnalysisReport(a)
	case "/watchlist", "/w":
		if len(s.Watchlist) == 0 {
			return "watchlist is empty"
		}
		return "watchlist: " + strings.Join(s.Watchlist, ", ")
	default:
		return helpText
	}
}

const helpText = "commands:\n• /analyze SYMBOL [period]\n• /watchlist"

func replyForError(symbol string, err error) string {
	switch {
	case errors.Is(err, strategy.ErrInsufficientHistory):
		return fmt.Sprintf("cannot analyze %s: not enough price history", symbol)
	case errors.Is(err, collector.ErrInvalidPeriod):
		return fmt.Sprintf("cannot analyze %s: period must be one of %s", symbol, strings.Join(collector.Periods, ", "))
	default:
		return fmt.Sprintf("cannot analyze %s: data fetch failed", symbol)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Errorf("send notification: %v", err)
	}
}
