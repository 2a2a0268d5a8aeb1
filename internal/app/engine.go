package app

import (
	"context"
	"fmt"
	"sync"

	"mbti-quiz-service/internal/catalog"
	"mbti-quiz-service/internal/domain"
	"mbti-quiz-service/internal/scoring"

	"go.uber.org/zap"
)

// State is the lifecycle of a test attempt.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateFinalized:
		return "finalized"
	}
	return "unknown"
}

// Direction moves the question cursor.
type Direction int

const (
	Next Direction = iota + 1
	Previous
)

func ParseDirection(raw string) (Direction, error) {
	switch raw {
	case "next":
		return Next, nil
	case "previous", "prev":
		return Previous, nil
	}
	return 0, fmt.Errorf("%w: direction %q", domain.ErrInvalidInput, raw)
}

// Engine owns one test attempt: the sampled questions, the cursor and the
// upserted answers. Starting a new session discards the previous one.
type Engine struct {
	svc *Service

	mu        sync.Mutex
	state     State
	tier      domain.Tier
	questions []domain.Statement
	cursor    int
	answers   map[int]int
	order     []int
}

// StartSession samples the tier's catalog and resets the attempt.
// It fails only when the tier is unknown or the catalog cannot be loaded.
func (e *Engine) StartSession(ctx context.Context, tier domain.Tier) error {
	spec, err := e.svc.tiers.Lookup(tier)
	if err != nil {
		return err
	}
	cat, err := e.svc.catalogs.GetCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	questions := e.svc.sampler.Sample(catalog.ForTier(cat, spec), spec.TargetCount)
	if len(questions) < spec.TargetCount {
		e.svc.logger.Warn("catalog under-filled sample",
			zap.String("tier", string(tier)),
			zap.Int("target", spec.TargetCount),
			zap.Int("sampled", len(questions)))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateInProgress
	e.tier = tier
	e.questions = questions
	e.cursor = 0
	e.answers = make(map[int]int, len(questions))
	e.order = e.order[:0]

	e.svc.logger.Debug("session started", zap.String("tier", string(tier)), zap.Int("questions", len(questions)))
	return nil
}

// RecordAnswer upserts the response for a statement. It does not move the cursor.
func (e *Engine) RecordAnswer(statementID, score int) error {
	if score < domain.MinScore || score > domain.MaxScore {
		return fmt.Errorf("%w: score %d outside %d..%d", domain.ErrInvalidInput, score, domain.MinScore, domain.MaxScore)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return domain.ErrNoActiveSession
	}
	if _, ok := e.answers[statementID]; !ok {
		e.order = append(e.order, statementID)
	}
	e.answers[statementID] = score
	return nil
}

// Navigate moves the cursor and returns the new index, clamped to the sample.
func (e *Engine) Navigate(dir Direction) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch dir {
	case Next:
		e.cursor++
	case Previous:
		e.cursor--
	}
	if last := len(e.questions) - 1; e.cursor > last {
		e.cursor = last
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
	return e.cursor
}

// Finalize scores the recorded answers and hands the result to the history
// store. Any number of answers is valid, including none. Calling it again
// before a new session re-scores the same answers.
func (e *Engine) Finalize(ctx context.Context) (domain.Result, error) {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return domain.Result{}, domain.ErrNoActiveSession
	}
	scores, label := scoring.Compute(e.questions, e.answersLocked())
	result := domain.Result{
		ID:        e.svc.newID(),
		CreatedAt: e.svc.now().UTC(),
		Type:      label,
		Tier:      e.tier,
		Scores:    scores,
	}
	e.state = StateFinalized
	e.mu.Unlock()

	if err := e.svc.history.Append(ctx, result); err != nil {
		e.svc.logger.Warn("persist result", zap.String("id", result.ID), zap.Error(err))
	}
	e.svc.logger.Info("session finalized",
		zap.String("id", result.ID),
		zap.String("type", result.Type),
		zap.String("tier", string(result.Tier)))
	return result, nil
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Questions returns a copy of the sampled statements in presentation order.
func (e *Engine) Questions() []domain.Statement {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Statement, len(e.questions))
	copy(out, e.questions)
	return out
}

// Current returns the statement under the cursor.
func (e *Engine) Current() (domain.Statement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.questions) {
		return domain.Statement{}, false
	}
	return e.questions[e.cursor], true
}

// Answers returns the recorded answers in first-answered order.
func (e *Engine) Answers() []domain.Answer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.answersLocked()
}

func (e *Engine) answersLocked() []domain.Answer {
	out := make([]domain.Answer, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, domain.Answer{StatementID: id, Score: e.answers[id]})
	}
	return out
}

// Progress counts answers to statements in the current sample.
func (e *Engine) Progress() domain.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	answered := 0
	for _, q := range e.questions {
		if _, ok := e.answers[q.ID]; ok {
			answered++
		}
	}
	return domain.Progress{
		Tier:     e.tier,
		Cursor:   e.cursor,
		Answered: answered,
		Total:    len(e.questions),
	}
}
