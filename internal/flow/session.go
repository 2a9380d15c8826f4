package flow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tjfontaine/salon-intake/internal/answer"
	"github.com/tjfontaine/salon-intake/internal/catalog"
	"github.com/tjfontaine/salon-intake/internal/domain"
)

// DefaultAutoAdvanceDelay is how long a single-select answer stays on screen
// before the flow moves on by itself.
const DefaultAutoAdvanceDelay = 500 * time.Millisecond

// State is the lifecycle state of a session.
type State int

const (
	StateInProgress State = iota
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Progress locates the current question within the visible list.
type Progress struct {
	Position int `json:"position"`
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithAutoAdvanceDelay sets the auto-advance delay. Zero disables it.
func WithAutoAdvanceDelay(d time.Duration) SessionOption {
	return func(s *Session) { s.delay = d }
}

// WithPractitioner records who conducts the diagnostic.
func WithPractitioner(id, name string) SessionOption {
	return func(s *Session) {
		s.practitionerID = id
		s.practitionerName = name
	}
}

// WithPurgeHiddenAnswers drops answers of hidden questions from the saved record.
func WithPurgeHiddenAnswers(purge bool) SessionOption {
	return func(s *Session) { s.purgeHidden = purge }
}

// WithAutoAdvanceListener registers fn to be called, outside the session
// lock, after each auto-advance.
func WithAutoAdvanceListener(fn func(*Session)) SessionOption {
	return func(s *Session) { s.onAutoAdvance = fn }
}

// Session is one client's pass through a catalog. All methods are safe for
// concurrent use; sessions share no state with each other.
type Session struct {
	mu sync.Mutex

	id       string
	clientID string
	catalog  *catalog.Catalog

	answers   answer.Answers
	index     int
	state     State
	signature string
	finalized bool

	practitionerID   string
	practitionerName string
	purgeHidden      bool
	diagnosticID     string

	delay         time.Duration
	timer         *time.Timer
	generation    uint64
	onAutoAdvance func(*Session)
}

// NewSession starts a flow for clientID over a private copy of cat.
func NewSession(clientID string, cat *catalog.Catalog, opts ...SessionOption) (*Session, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if cat == nil || len(cat.Questions) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	s := &Session{
		id:       uuid.NewString(),
		clientID: clientID,
		catalog:  cat.Clone(),
		answers:  answer.Answers{},
		state:    StateInProgress,
		delay:    DefaultAutoAdvanceDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) ID() string                 { return s.id }
func (s *Session) ClientID() string           { return s.clientID }
func (s *Session) Category() catalog.Category { return s.catalog.Category }

// Catalog returns a copy of the catalog the session runs on.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog.Clone() }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Answers returns a copy of the answers gathered so far.
func (s *Session) Answers() answer.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Signed reports whether a signature has been captured.
func (s *Session) Signed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signature != ""
}

// Finalized reports whether the session was saved.
func (s *Session) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

// AutoAdvancePending reports whether an auto-advance is scheduled.
func (s *Session) AutoAdvancePending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Visible returns the questions currently presented, in order.
func (s *Session) Visible() []catalog.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Visible(s.catalog, s.answers)
}

// Current returns the question at the current position of the visible list.
func (s *Session) Current() catalog.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, _ := s.currentLocked()
	return q
}

// Index returns the current position in the visible list.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLocked()
	return s.index
}

// CanAdvance reports whether the current question holds a defined answer.
// Empty text and empty selections count as answered.
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, _ := s.currentLocked()
	return s.answers.Has(q.ID)
}

// Progress reports the position within the visible list.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

// Advance moves to the next visible question, or completes the flow when the
// current question is the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.cancelAutoAdvanceLocked()
	return s.advanceLocked()
}

// Retreat moves to the previous visible question. It is a no-op on the first.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.cancelAutoAdvanceLocked()
	if s.state == StateCompleted {
		return ErrCompleted
	}

	s.currentLocked()
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Answer records v for question id. The question must be visible and v must
// have the shape its kind requires. Answering the current single-select
// question schedules an auto-advance.
func (s *Session) Answer(id string, v answer.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answerLocked(id, v)
}

// Toggle applies one tap on an option of a choice question. On a
// multi-select question the option is added or removed, evicting the oldest
// selection when the question's cap is reached.
func (s *Session) Toggle(id, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.catalog.Question(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	switch {
	case q.IsSingleSelect():
		return s.answerLocked(id, answer.Text(option))
	case q.IsMultiSelect():
		if !q.HasOption(option) {
			return fmt.Errorf("%w: question %s has no option %q", ErrInvalidAnswer, id, option)
		}
		var selected []string
		if cur, has := s.answers.Get(id); has {
			selected, _ = cur.Set()
		}
		return s.answerLocked(id, answer.Set(ToggleSelection(selected, option, q.MaxSelections)...))
	default:
		return fmt.Errorf("%w: question %s is not a choice", ErrInvalidAnswer, id)
	}
}

func (s *Session) answerLocked(id string, v answer.Value) error {
	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.cancelAutoAdvanceLocked()
	if s.state == StateCompleted {
		return ErrCompleted
	}

	q, ok := s.catalog.Question(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if !IsVisible(q, s.answers) {
		return fmt.Errorf("%w: %s", ErrHidden, id)
	}
	if err := q.Accepts(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
	}

	current, _ := s.currentLocked()
	s.answers = answer.Merge(s.answers, id, v)

	if q.IsSingleSelect() && current.ID == id {
		s.scheduleAutoAdvanceLocked(id)
	}
	return nil
}

// Sign attaches the client's signature payload.
func (s *Session) Sign(payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(); err != nil {
		return err
	}
	if payload == "" {
		return fmt.Errorf("%w: signature payload is empty", ErrInvalidAnswer)
	}
	s.signature = payload
	return nil
}

// ClearSignature removes a captured signature.
func (s *Session) ClearSignature() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.signature = ""
	return nil
}

// Reset clears answers, position and signature.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutableLocked(); err != nil {
		return err
	}
	s.cancelAutoAdvanceLocked()
	s.answers = answer.Answers{}
	s.index = 0
	s.state = StateInProgress
	s.signature = ""
	s.diagnosticID = ""
	return nil
}

// Finalize builds the diagnostic record to persist. The session is left
// untouched so a failed save can be retried; call MarkSaved once the record
// is stored.
func (s *Session) Finalize(now time.Time) (*domain.Diagnostic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return nil, ErrFinalized
	}
	if s.state != StateCompleted {
		return nil, ErrNotCompleted
	}
	if s.signature == "" {
		return nil, ErrMissingSignature
	}

	answers := s.answers.Clone()
	if s.purgeHidden {
		answers = PruneHidden(s.catalog, answers)
	}
	if s.diagnosticID == "" {
		s.diagnosticID = uuid.NewString()
	}

	completed := now
	return &domain.Diagnostic{
		ID:               s.diagnosticID,
		ClientID:         s.clientID,
		Category:         s.catalog.Category,
		Answers:          answers,
		Signature:        s.signature,
		PractitionerID:   s.practitionerID,
		PractitionerName: s.practitionerName,
		CreatedAt:        now,
		CompletedAt:      &completed,
	}, nil
}

// MarkSaved freezes the session after its diagnostic was persisted.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAutoAdvanceLocked()
	s.finalized = true
}

// Close cancels any pending auto-advance.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAutoAdvanceLocked()
}

// View is a point-in-time copy of the session for presentation.
type View struct {
	ID                 string            `json:"id"`
	ClientID           string            `json:"client_id"`
	Category           catalog.Category  `json:"category"`
	State              State             `json:"state"`
	Index              int               `json:"index"`
	Current            *catalog.Question `json:"current,omitempty"`
	Visible            []string          `json:"visible"`
	Answers            answer.Answers    `json:"answers"`
	Progress           Progress          `json:"progress"`
	CanAdvance         bool              `json:"can_advance"`
	Signed             bool              `json:"signed"`
	AutoAdvancePending bool              `json:"auto_advance_pending"`
	Finalized          bool              `json:"finalized"`
	PractitionerName   string            `json:"practitioner_name,omitempty"`
}

// View captures the session state atomically.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, visible := s.currentLocked()
	ids := make([]string, len(visible))
	for i, v := range visible {
		ids[i] = v.ID
	}

	view := View{
		ID:                 s.id,
		ClientID:           s.clientID,
		Category:           s.catalog.Category,
		State:              s.state,
		Index:              s.index,
		Visible:            ids,
		Answers:            s.answers.Clone(),
		Progress:           s.progressLocked(),
		CanAdvance:         s.answers.Has(q.ID),
		Signed:             s.signature != "",
		AutoAdvancePending: s.timer != nil,
		Finalized:          s.finalized,
		PractitionerName:   s.practitionerName,
	}
	if s.state == StateInProgress {
		view.Current = &q
	}
	return view
}

// currentLocked recomputes the visible list and clamps the index into it.
// The first question of a valid catalog is always visible, so the list is
// never empty.
func (s *Session) currentLocked() (catalog.Question, []catalog.Question) {
	visible := Visible(s.catalog, s.answers)
	if s.index >= len(visible) {
		s.index = len(visible) - 1
	}
	if s.index < 0 {
		s.index = 0
	}
	return visible[s.index], visible
}

func (s *Session) progressLocked() Progress {
	_, visible := s.currentLocked()
	p := Progress{Position: s.index + 1, Total: len(visible)}
	p.Percent = p.Position * 100 / p.Total
	return p
}

func (s *Session) mutableLocked() error {
	if s.finalized {
		return ErrFinalized
	}
	return nil
}

func (s *Session) advanceLocked() error {
	if s.state == StateCompleted {
		return ErrCompleted
	}
	q, visible := s.currentLocked()
	if !s.answers.Has(q.ID) {
		return fmt.Errorf("%w: %s", ErrUnanswered, q.ID)
	}
	if s.index == len(visible)-1 {
		s.state = StateCompleted
		return nil
	}
	s.index++
	return nil
}

func (s *Session) scheduleAutoAdvanceLocked(id string) {
	if s.delay <= 0 {
		return
	}
	gen := s.generation
	s.timer = time.AfterFunc(s.delay, func() { s.autoAdvance(gen, id) })
}

// cancelAutoAdvanceLocked invalidates any scheduled auto-advance. A timer
// that already fired sees the bumped generation and does nothing.
func (s *Session) cancelAutoAdvanceLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) autoAdvance(gen uint64, id string) {
	s.mu.Lock()
	if gen != s.generation || s.finalized || s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.generation++

	advanced := false
	if q, _ := s.currentLocked(); q.ID == id {
		advanced = s.advanceLocked() == nil
	}
	listener := s.onAutoAdvance
	s.mu.Unlock()

	if advanced && listener != nil {
		listener(s)
	}
}
