package worker

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"sync"
	"time"

	"sjsage522/propertydealworker/internal"
	"sjsage522/propertydealworker/internal/scraper"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
	"sjsage522/propertydealworker/services/cache"
	"sjsage522/propertydealworker/services/classifier"
	"sjsage522/propertydealworker/services/publisher"
)

// Cache keys shared by every worker process
const (
	LockKey     = "property:scrape:lock"
	CooldownKey = "property:scrape:cooldown"
)

// Scraper produces one batch of records per call
type Scraper interface {
	Scrape(ctx context.Context) (scraper.Result, error)
}

// Config tunes the worker loop
type Config struct {
	// Interval between two scheduled runs
	Interval time.Duration
	// Cooldown skips scheduled runs for this long after a failed scrape
	Cooldown time.Duration
	// LockTTL bounds how long a crashed process can hold the shared lock
	LockTTL time.Duration
}

// Summary describes one completed run
type Summary struct {
	Scraped   int           `json:"scraped"`
	Anomalies int           `json:"anomalies_found"`
	Stored    int           `json:"stored"`
	Duration  time.Duration `json:"-"`
}

// Alert is the message published for every anomalous property
type Alert struct {
	District      string   `json:"district"`
	Price         *float64 `json:"price"`
	Area          *float64 `json:"area"`
	PricePerMeter *float64 `json:"price_per_meter"`
	AnomalyScore  float64  `json:"anomaly_score"`
}

// Worker handles the scrape, classify, store and publish process
type Worker struct {
	ctx     context.Context
	scraper Scraper
	deps    internal.Dependencies
	log     *logger.Logger
	cfg     Config

	// running guards against overlapping runs in this process; the cache
	// lock covers other processes
	running sync.Mutex
	now     func() time.Time
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, s Scraper, deps internal.Dependencies, log *logger.Logger, cfg Config) *Worker {
	if log == nil {
		log = logger.ForWorker()
	}
	return &Worker{
		ctx:     ctx,
		scraper: s,
		deps:    deps,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Start runs the pipeline every Interval until the worker context is done
func (w *Worker) Start() error {
	w.log.Info().Dur("interval", w.cfg.Interval).Msg("Worker started")

	for {
		w.tick()

		timer := time.NewTimer(w.cfg.Interval)
		select {
		case <-w.ctx.Done():
			timer.Stop()
			w.log.Info().Msg("Worker stopped")
			return w.ctx.Err()
		case <-timer.C:
		}
	}
}

func (w *Worker) tick() {
	if until, err := w.deps.Cache.Get(CooldownKey); err == nil {
		w.log.Warn().Str("until", string(until)).Msg("Cooling down after failed scrape, skipping run")
		return
	}

	summary, err := w.RunOnce(w.ctx)
	if err != nil {
		if errors.Is(err, errors.ErrorTypeBusy) {
			w.log.Info().Err(err).Msg("Skipping scheduled run")
			return
		}
		w.log.Error().Err(err).Str("type", string(errors.TypeOf(err))).Msg("Scheduled run failed")
		return
	}

	if os.Getenv("PROPERTY_ENVIRONMENT") != "production" {
		w.log.Info().Dur("elapsed", summary.Duration).Msg("Run duration")
	}
}

// RunOnce scrapes the portal, forwards the records to the classification
// services, stores the results and publishes an alert per anomaly. It
// returns a busy error when another run holds the lock.
func (w *Worker) RunOnce(ctx context.Context) (Summary, error) {
	if !w.running.TryLock() {
		return Summary{}, errors.NewBusy("a scrape is already running")
	}
	defer w.running.Unlock()

	release, err := w.acquire()
	if err != nil {
		return Summary{}, err
	}
	defer release()

	start := w.now()
	summary, err := w.run(ctx)
	summary.Duration = w.now().Sub(start)
	return summary, err
}

func (w *Worker) acquire() (func(), error) {
	err := w.deps.Cache.Add(LockKey, []byte(w.now().UTC().Format(time.RFC3339)), w.cfg.LockTTL)
	switch {
	case err == nil:
		return func() {
			if err := w.deps.Cache.Delete(LockKey); err != nil {
				w.log.Warn().Err(err).Msg("Failed to release scrape lock")
			}
		}, nil
	case stderrors.Is(err, cache.ErrExists):
		return nil, errors.NewBusy("another process holds the scrape lock")
	default:
		// an unreachable cache must not stop the pipeline
		w.log.Warn().Err(err).Msg("Scrape lock unavailable, continuing without it")
		return func() {}, nil
	}
}

func (w *Worker) run(ctx context.Context) (Summary, error) {
	res, err := w.scraper.Scrape(ctx)
	if err != nil {
		w.startCooldown()
		return Summary{}, err
	}

	summary := Summary{Scraped: res.Len()}
	if res.Len() == 0 {
		w.log.Info().Msg("No properties scraped, nothing to forward")
		return summary, nil
	}
	w.logSample(res)

	classified, err := w.deps.Classifier.Classify(ctx, res.Plain)
	if err != nil {
		return summary, err
	}

	results, err := w.deps.Classifier.DetectAnomalies(ctx, classified)
	if err != nil {
		return summary, err
	}

	stored, err := w.deps.Store.SaveAnomalyResults(ctx, results, w.now())
	if err != nil {
		return summary, err
	}
	summary.Stored = stored

	for _, r := range results {
		if !r.IsAnomaly {
			continue
		}
		summary.Anomalies++
		w.publish(r)
	}

	if err := w.deps.Publisher.TrimStreams(); err != nil {
		w.log.Error().Err(err).Msg("Failed to trim streams")
	}

	w.log.Info().
		Int("scraped", summary.Scraped).
		Int("stored", summary.Stored).
		Int("anomalies", summary.Anomalies).
		Msg("Scraping and processing completed successfully")
	return summary, nil
}

func (w *Worker) publish(r classifier.AnomalyResult) {
	data, err := json.Marshal(Alert{
		District:      r.District,
		Price:         r.Price,
		Area:          r.Area,
		PricePerMeter: r.PricePerMeter,
		AnomalyScore:  r.AnomalyScore,
	})
	if err != nil {
		w.log.Error().Err(err).Str("district", r.District).Msg("Failed to marshal alert")
		return
	}

	if err := w.deps.Publisher.Publish(publisher.AnomalyAlertKey, data); err != nil {
		w.log.Error().Err(err).Str("district", r.District).Msg("Failed to publish alert")
	}
}

func (w *Worker) startCooldown() {
	if w.cfg.Cooldown <= 0 {
		return
	}
	until := w.now().Add(w.cfg.Cooldown).UTC().Format(time.RFC3339)
	if err := w.deps.Cache.Set(CooldownKey, []byte(until), w.cfg.Cooldown); err != nil {
		w.log.Warn().Err(err).Msg("Failed to set scrape cooldown")
	}
}

// logSample logs the first record outside production
func (w *Worker) logSample(res scraper.Result) {
	if os.Getenv("PROPERTY_ENVIRONMENT") == "production" {
		return
	}
	data, err := json.Marshal(res.Categorized[0])
	if err != nil {
		return
	}
	w.log.Debug().RawJSON("record", data).Msg("Scraped data")
}
