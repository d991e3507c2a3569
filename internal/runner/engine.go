// Package runner loads a team document, applies one action and persists the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daniloc96/gitcode-team-roster/internal/config"
	"github.com/daniloc96/gitcode-team-roster/internal/interfaces"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
	"github.com/daniloc96/gitcode-team-roster/internal/roster"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning = errors.New("roster run already in progress")
	ErrUnknownAction  = errors.New("unknown action")
	ErrUnknownPerson  = errors.New("unknown person")
	ErrUnknownTeam    = errors.New("unknown team")
	ErrUnknownField   = errors.New("unknown person field")
)

// Engine orchestrates a roster run.
type Engine struct {
	store      interfaces.DocumentStore
	metrics    interfaces.MetricsEmitter
	cfg        *config.Config
	normalizer *roster.Normalizer
	inferrer   *roster.Inferrer
	exporter   *roster.Exporter
	catalog    []string
	mu         sync.Mutex
	running    bool
}

// NewEngine creates a roster engine over store. The committer labels and
// inference domains come from cfg.Roster.
func NewEngine(store interfaces.DocumentStore, cfg *config.Config) *Engine {
	normalizer := roster.NewNormalizer(roster.NewClassifier(cfg.Roster.CommitterLabels), nil)
	return &Engine{
		store:      store,
		cfg:        cfg,
		normalizer: normalizer,
		inferrer:   roster.NewInferrer(cfg.Roster.InferenceDomains),
		exporter:   roster.NewExporter(normalizer),
	}
}

// SetMetrics sets the metrics emitter. If nil, metrics are skipped.
func (e *Engine) SetMetrics(m interfaces.MetricsEmitter) {
	e.metrics = m
}

// SetCatalog sets the team names every run makes sure exist.
func (e *Engine) SetCatalog(names []string) {
	e.catalog = names
}

// SetClock pins the updatedAt timestamp of exported documents.
func (e *Engine) SetClock(now func() time.Time) {
	e.exporter.Now = now
}

// Run performs one action against the stored document.
func (e *Engine) Run(ctx context.Context, req models.ActionRequest) (*models.RunResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	start := time.Now()
	dryRun := e.cfg.Roster.DryRun

	session, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	report := session.Report()
	logrus.WithFields(report.LogFields()).WithField("repairs", report.Repairs()).Info("📥 [1/4] Roster loaded")

	result := &models.RunResult{Action: req.Action, DryRun: dryRun}
	if len(e.catalog) > 0 {
		result.Catalog = session.ApplyCatalog(e.catalog)
		for _, name := range roster.UnknownTeams(session.Roster(), e.catalog) {
			logrus.WithField("team", name).Warn("⚠ Team is not in the catalog")
		}
	}

	logrus.WithFields(req.LogFields()).Info("⚡ [2/4] Applying action")
	inference, err := e.apply(session, req, dryRun)
	if err != nil {
		return nil, err
	}
	result.Inference = inference

	doc, err := e.exporter.Marshal(session.Roster())
	if err != nil {
		return nil, fmt.Errorf("exporting roster: %w", err)
	}
	result.Document = doc

	switch {
	case !wantsSave(session, req):
		logrus.Info("💾 [3/4] Nothing to save")
	case dryRun:
		logrus.WithField("bytes", len(doc)).Info("💾 [3/4] [DRY RUN] would save document")
	default:
		if err := e.store.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("saving roster document: %w", err)
		}
		session.MarkSaved()
		result.Saved = true
		logrus.WithField("bytes", len(doc)).Info("💾 [3/4] Document saved")
	}

	result.Report = session.Report()
	result.Summary = roster.Summarize(session.Roster())
	result.DurationMs = time.Since(start).Milliseconds()
	logrus.WithField("summary", result.Summary.String()).Info("📊 [4/4] Run complete")

	if e.metrics != nil {
		if err := e.metrics.EmitRun(ctx, result); err != nil {
			logrus.WithError(err).Warn("⚠ Failed to emit metrics")
		}
	}
	return result, nil
}

// load parses the stored document into a fresh session. A store without a
// document yields an empty roster.
func (e *Engine) load(ctx context.Context) (*roster.Session, error) {
	data, err := e.store.Load(ctx)
	switch {
	case errors.Is(err, interfaces.ErrDocumentNotFound):
		logrus.WithError(err).Warn("⚠ No stored document, starting from an empty roster")
		data = nil
	case err != nil:
		return nil, fmt.Errorf("loading roster document: %w", err)
	}

	var raw any
	if len(data) > 0 {
		raw, err = roster.Parse(data)
		if err != nil {
			return nil, err
		}
	}
	session := roster.NewSession(e.normalizer)
	session.Load(raw)
	return session, nil
}

func (e *Engine) apply(s *roster.Session, req models.ActionRequest, dryRun bool) (*models.InferenceResult, error) {
	r := s.Roster()
	switch req.Action {
	case models.ActionNormalize, models.ActionSummary:
		return nil, nil

	case models.ActionInferNames:
		changes := e.inferrer.ComputeProposedChanges(r)
		for i := range changes {
			logrus.WithFields(changes[i].LogFields()).Info("  Proposed name")
		}
		if dryRun {
			return &models.InferenceResult{Proposed: len(changes), Changes: changes}, nil
		}
		res := e.inferrer.Apply(s, changes)
		logrus.WithFields(res.LogFields()).Info("  Names inferred")
		return &res, nil

	case models.ActionSetTeam:
		teamID := ""
		if req.TeamID != "" {
			t := resolveTeam(r, req.TeamID)
			if t == nil {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, req.TeamID)
			}
			teamID = t.ID
		}
		if !s.SetPersonTeam(req.Username, teamID) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPerson, req.Username)
		}

	case models.ActionSetLeader:
		t := resolveTeam(r, req.TeamID)
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, req.TeamID)
		}
		if req.Username != "" && r.FindPerson(req.Username) == nil {
			logrus.WithField("username", req.Username).Warn("⚠ Leader is not in the roster")
		}
		s.SetTeamLeader(t.ID, req.Username)

	case models.ActionSetField:
		field, ok := roster.ParsePersonField(req.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, req.Field)
		}
		if !s.SetPersonField(req.Username, field, req.Value) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPerson, req.Username)
		}

	case models.ActionConfirm:
		if !s.ToggleConfirmed(req.Username, req.Confirmed) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPerson, req.Username)
		}

	case models.ActionSetTeamNotes:
		t := resolveTeam(r, req.TeamID)
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, req.TeamID)
		}
		s.SetTeamNotes(t.ID, req.Value)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	return nil, nil
}

// resolveTeam looks a team up by id, then by name.
func resolveTeam(r *models.Roster, ref string) *models.Team {
	if ref == "" {
		return nil
	}
	if t := r.FindTeam(ref); t != nil {
		return t
	}
	return r.FindTeamByName(ref)
}

// wantsSave is true when the run changed the roster, or the action rewrites the
// document in canonical form regardless of edits. Summary never saves, even when
// the catalog added teams.
func wantsSave(s *roster.Session, req models.ActionRequest) bool {
	if req.Action == models.ActionSummary {
		return false
	}
	if s.Dirty() {
		return true
	}
	return req.Action == models.ActionNormalize || req.Action == models.ActionInferNames
}
