// Package service runs normalization jobs end to end
package service

import (
	"context"
	"slices"
	"time"

	"aarcnorm/internal/core/normalize"
	perr "aarcnorm/internal/platform/errors"
	"aarcnorm/internal/platform/logger"
	"aarcnorm/internal/platform/net/http/bind"
	"aarcnorm/internal/services/normalizer/domain"
	"aarcnorm/internal/services/normalizer/guardrails"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Config holds job defaults and budgets
type Config struct {
	// defaults applied to empty Job fields
	RawPath string
	OutDir  string
	Export  []string
	NFC     bool

	// Verbose logs the row count of every relation
	Verbose bool

	Timeouts guardrails.Timeouts
}

// Service implements domain.RunnerPort
type Service struct {
	Source domain.Source
	Store  domain.Store
	Sinks  map[string]domain.Sink
	Cfg    Config

	// optional
	Ledger domain.Ledger
	OnDone []domain.DoneHook

	newID func() string
}

// New constructs the service; sinks are keyed by their Name
func New(src domain.Source, st domain.Store, sinks []domain.Sink, cfg Config) *Service {
	if src == nil {
		panic("normalizer.Service requires a non nil Source")
	}
	m := make(map[string]domain.Sink, len(sinks))
	for _, s := range sinks {
		if s != nil {
			m[s.Name()] = s
		}
	}
	return &Service{Source: src, Store: st, Sinks: m, Cfg: cfg, newID: uuid.NewString}
}

// WithLedger wires run bookkeeping
func (s *Service) WithLedger(l domain.Ledger) *Service {
	s.Ledger = l
	return s
}

// WithDoneHook registers h to run after every successful run
func (s *Service) WithDoneHook(h domain.DoneHook) *Service {
	s.OnDone = append(s.OnDone, h)
	return s
}

// Prepare fills job defaults and validates it
func (s *Service) Prepare(job domain.Job) (domain.Job, error) {
	if job.RawPath == "" {
		job.RawPath = s.Cfg.RawPath
	}
	if job.OutDir == "" {
		job.OutDir = s.Cfg.OutDir
	}
	if job.Export == nil {
		job.Export = slices.Clone(s.Cfg.Export)
	}
	if job.NFC == nil {
		nfc := s.Cfg.NFC
		job.NFC = &nfc
	}
	if job.RunID == "" {
		job.RunID = s.newID()
	}
	if job.RawPath == "" {
		return job, perr.WithField(perr.Validationf("raw_path is required"), "raw_path")
	}
	if err := bind.Validate(job); err != nil {
		return job, err
	}

	slices.Sort(job.Export)
	job.Export = slices.Compact(job.Export)
	for _, name := range job.Export {
		if _, ok := s.Sinks[name]; !ok {
			return job, perr.WithField(perr.InvalidArgf("sink %q is not configured", name), "export")
		}
	}
	if job.OutDir != "" && s.Store == nil {
		return job, perr.WithField(perr.InvalidArgf("no store configured for out_dir"), "out_dir")
	}
	return job, nil
}

// Run implements domain.RunnerPort
func (s *Service) Run(ctx context.Context, job domain.Job) (rep domain.Report, retErr error) {
	job, err := s.Prepare(job)
	if err != nil {
		return rep, err
	}

	ctx = logger.WithRun(ctx, job.RunID)
	ctx, cancel := guardrails.WithRun(ctx, s.Cfg.Timeouts)
	defer cancel()
	log := logger.C(ctx)

	start := time.Now()
	rep = domain.Report{RunID: job.RunID, RawPath: job.RawPath, OutDir: job.OutDir, Sinks: job.Export}

	if s.Ledger != nil {
		if err := s.Ledger.StartRun(ctx, domain.RunStart{
			RunID: job.RunID, RawPath: job.RawPath, OutDir: job.OutDir, Sinks: job.Export,
		}); err != nil {
			log.Warn().Err(err).Msg("ledger start failed")
		}
		defer func() {
			fin := domain.RunFinish{
				Status:    "ok",
				RawRows:   rep.RawRows,
				Relations: len(rep.Counts),
				ElapsedMS: int(time.Since(start).Milliseconds()),
			}
			if retErr != nil {
				fin.Status = "error"
				fin.ErrText = retErr.Error()
			}
			// ctx may be past its budget here
			fctx := logger.WithRun(context.WithoutCancel(ctx), job.RunID)
			if err := s.Ledger.FinishRun(fctx, job.RunID, fin); err != nil {
				log.Warn().Err(err).Msg("ledger finish failed")
			}
		}()
	}

	// load
	t0 := time.Now()
	lctx, lcancel := guardrails.ForLoad(ctx, s.Cfg.Timeouts)
	raw, err := s.Source.ReadRaw(lctx, job.RawPath, *job.NFC)
	lcancel()
	rep.LoadMS = ms(t0)
	if err != nil {
		return rep, err
	}
	rep.RawRows = raw.Len()

	// normalize
	t0 = time.Now()
	c, err := normalize.New(normalize.Options{Verbose: s.Cfg.Verbose}).Normalize(ctx, raw)
	rep.NormalizeMS = ms(t0)
	if err != nil {
		return rep, err
	}
	rep.Counts = c.Counts()

	// write
	if job.OutDir != "" {
		t0 = time.Now()
		if err := s.Store.WriteCollection(ctx, job.OutDir, c); err != nil {
			return rep, err
		}
		rep.WriteMS = ms(t0)
	}

	// publish; sinks are independent so they run side by side
	if len(job.Export) > 0 {
		t0 = time.Now()
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range job.Export {
			sink := s.Sinks[name]
			g.Go(func() error {
				pctx, pcancel := guardrails.ForPublish(gctx, s.Cfg.Timeouts)
				defer pcancel()
				if err := sink.Publish(pctx, job.RunID, c); err != nil {
					return perr.WithOp(err, "publish "+name)
				}
				return nil
			})
		}
		err := g.Wait()
		rep.PublishMS = ms(t0)
		if err != nil {
			return rep, err
		}
	}

	rep.ElapsedMS = ms(start)
	log.Info().
		Int("raw_rows", rep.RawRows).
		Int("relations", len(rep.Counts)).
		Strs("sinks", rep.Sinks).
		Int("elapsed_ms", rep.ElapsedMS).
		Msg("normalization run done")

	for _, h := range s.OnDone {
		h(ctx, rep)
	}
	return rep, nil
}

func ms(since time.Time) int { return int(time.Since(since).Milliseconds()) }
