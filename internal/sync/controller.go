// Package sync keeps each participant's editable buffer consistent with the
// canonical session state: local keystrokes are applied optimistically and
// published after a debounce quiet period, while remote canonical updates
// are suppressed for a short protection window after a local edit so
// in-progress typing is never clobbered.
package sync

import (
	"context"
	stdsync "sync"
	"time"

	"go.uber.org/zap"

	"interviewhub/internal/models"
)

const (
	// DefaultDebounce is the quiet period before a buffer is published.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultProtectionWindow suppresses remote code overwrites after a
	// local edit.
	DefaultProtectionWindow = 500 * time.Millisecond
)

// Publisher pushes a participant's state to the canonical store.
type Publisher interface {
	PublishCode(ctx context.Context, code string, lang models.Language) error
	PublishQuestion(ctx context.Context, questionID, code string, lang models.Language) error
}

// Config tunes controller timing. Zero values fall back to the defaults.
type Config struct {
	Debounce         time.Duration
	ProtectionWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.ProtectionWindow <= 0 {
		c.ProtectionWindow = DefaultProtectionWindow
	}
	return c
}

// StarterLookup resolves the starter code of a question for a language.
type StarterLookup func(questionID string, lang models.Language) (string, bool)

// RemoteResult reports which parts of the local view a remote canonical
// update actually changed.
type RemoteResult struct {
	CodeChanged     bool
	LanguageChanged bool
	QuestionChanged bool
}

func (r RemoteResult) Any() bool {
	return r.CodeChanged || r.LanguageChanged || r.QuestionChanged
}

// Controller reconciles one participant's buffer against canonical state.
type Controller struct {
	mu  stdsync.Mutex
	cfg Config
	log *zap.Logger
	pub Publisher

	buffer     string
	language   models.Language
	questionID string

	lastLocalEdit time.Time
	debounce      *time.Timer
	closed        bool
}

func NewController(pub Publisher, cfg Config, log *zap.Logger) *Controller {
	return &Controller{
		cfg:      cfg.withDefaults(),
		log:      log,
		pub:      pub,
		language: models.Languages[0],
	}
}

// Snapshot returns the current local view.
func (c *Controller) Snapshot() (code string, lang models.Language, questionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer, c.language, c.questionID
}

// LocalEdit applies a keystroke optimistically, opens the protection window
// and (re)arms the debounce timer. Only the last edit within a quiet period
// is published.
func (c *Controller) LocalEdit(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.buffer = code
	c.lastLocalEdit = time.Now()

	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.Debounce, c.flushLocked)
}

// flushLocked fires on the debounce timer; it re-locks to read the buffer
// and publishes outside the lock. A failed publish keeps the local buffer;
// the next keystroke re-arms the timer and retries naturally.
func (c *Controller) flushLocked() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	code, lang := c.buffer, c.language
	c.mu.Unlock()

	if err := c.pub.PublishCode(context.Background(), code, lang); err != nil {
		c.log.Warn("code publish failed, keeping local buffer", zap.Error(err))
	}
}

// SetLanguage switches the active language immediately (no debounce) and
// resets the buffer to the question's starter code for the new language,
// discarding unpublished local edits.
func (c *Controller) SetLanguage(ctx context.Context, lang models.Language, starter StarterLookup) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.language = lang
	if c.questionID != "" {
		if code, ok := starter(c.questionID, lang); ok {
			c.buffer = code
		}
	}
	c.cancelDebounceLocked()
	code := c.buffer
	c.mu.Unlock()

	return c.pub.PublishCode(ctx, code, lang)
}

// SetQuestion makes a question the shared one, resetting the buffer to its
// starter code for the active language. Published immediately.
func (c *Controller) SetQuestion(ctx context.Context, q *models.Question) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.questionID = q.ID
	c.buffer = q.StarterCode.ForLanguage(c.language)
	c.cancelDebounceLocked()
	code, lang := c.buffer, c.language
	c.mu.Unlock()

	return c.pub.PublishQuestion(ctx, q.ID, code, lang)
}

// Bootstrap auto-selects the first question of the bank when the session has
// no canonical question yet. The selection is always applied locally;
// authorized participants also publish it to establish convergence without
// an explicit start action.
func (c *Controller) Bootstrap(ctx context.Context, questions []models.Question, authorized bool) error {
	if len(questions) == 0 {
		return nil
	}
	c.mu.Lock()
	if c.closed || c.questionID != "" {
		c.mu.Unlock()
		return nil
	}
	first := questions[0]
	c.questionID = first.ID
	c.buffer = first.StarterCode.ForLanguage(c.language)
	code, lang := c.buffer, c.language
	c.mu.Unlock()

	if !authorized {
		return nil
	}
	return c.pub.PublishQuestion(ctx, first.ID, code, lang)
}

// ApplyRemote reconciles a canonical update into the local view. Language
// and question changes always win; the remote code wins only when the
// buffer is outside its protection window, the values differ, and a
// question has been selected locally.
func (c *Controller) ApplyRemote(sess *models.Session, starter StarterLookup) RemoteResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res RemoteResult
	if c.closed {
		return res
	}

	if sess.CurrentLanguage != "" && sess.CurrentLanguage != c.language {
		c.language = sess.CurrentLanguage
		res.LanguageChanged = true
	}

	if sess.CurrentQuestionID != nil && *sess.CurrentQuestionID != c.questionID {
		c.questionID = *sess.CurrentQuestionID
		if code, ok := starter(c.questionID, c.language); ok {
			c.buffer = code
			res.CodeChanged = true
		}
		res.QuestionChanged = true
	}

	inWindow := time.Since(c.lastLocalEdit) < c.cfg.ProtectionWindow
	if sess.CurrentCode != "" &&
		sess.CurrentCode != c.buffer &&
		!inWindow &&
		c.questionID != "" {
		c.buffer = sess.CurrentCode
		res.CodeChanged = true
	}
	return res
}

// Close stops the debounce timer; any pending publish is dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelDebounceLocked()
}

func (c *Controller) cancelDebounceLocked() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}
