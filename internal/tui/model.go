// Package tui implements the interactive review validation session using
// bubbletea. The reviewer walks the pending queue, corrects the machine
// labels through the category editor, and records a verdict per review.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/guestlens/guestlens/internal/catalog"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/service"
	"github.com/guestlens/guestlens/internal/session"
)

// State represents the current state of the TUI.
type State int

// TUI states.
const (
	StateLoading State = iota
	StateEditing
	StateRewrite
	StateConfirm
	StateHelp
	StateDone
)

// Category score steps. Subcategory corrections move on a finer scale than
// category ones because of the narrower score range.
const (
	categoryStep    = 0.5
	subcategoryStep = 0.25
)

type rowKind int

const (
	rowCategory rowKind = iota
	rowSubcategory
)

// row is one cursor position in the category editor: either a category
// header or one of its subcategories.
type row struct {
	category    string
	subcategory string
	kind        rowKind
}

// Config carries the dependencies for a review session.
type Config struct {
	Store     service.ReviewStore
	Status    model.ReviewStatus
	BatchSize int
}

// Model holds the review session state.
type Model struct {
	store           service.ReviewStore
	sess            *session.Session
	lastError       error
	status          model.ReviewStatus
	pendingDecision model.ValidationDecision
	queue           []model.Review
	rows            []row
	rewriteInput    textinput.Model
	keymap          KeyMap
	spinner         spinner.Model
	batchSize       int
	index           int
	cursor          int
	validated       int
	skipped         int
	width           int
	height          int
	state           State
	showDiff        bool
	quitting        bool
}

// NewModel creates a review session model.
func NewModel(cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "Rewritten comment"
	ti.CharLimit = 500

	status := cfg.Status
	if status == "" {
		status = model.StatusRandomSample
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	return Model{
		state:        StateLoading,
		store:        cfg.Store,
		status:       status,
		batchSize:    batchSize,
		keymap:       DefaultKeyMap(),
		spinner:      sp,
		rewriteInput: ti,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.spinner.Tick, m.loadReviews())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case reviewsLoadedMsg:
		m.queue = msg.reviews
		m.index = 0
		if len(m.queue) == 0 {
			m.state = StateDone
			return m, nil
		}
		m.startSession()
		return m, nil

	case evaluationSavedMsg:
		m.validated++
		return m.advance()

	case reviewSkippedMsg:
		m.skipped++
		return m.advance()

	case errorMsg:
		m.lastError = msg.err
		m.state = StateEditing
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// startSession opens an editing session on the review at the current index.
func (m *Model) startSession() {
	m.sess = session.New(m.queue[m.index])
	m.cursor = 0
	m.showDiff = false
	m.lastError = nil
	m.rebuildRows()
	m.state = StateEditing
}

// advance moves to the next queued review, or finishes the session.
func (m Model) advance() (tea.Model, tea.Cmd) {
	m.index++
	if m.index >= len(m.queue) {
		m.state = StateDone
		return m, nil
	}
	m.startSession()
	return m, nil
}

// rebuildRows lays out the cursor rows: every catalog category, with the
// full subcategory list expanded under each selected category. An irrelevant
// review has no editable rows at all; the catalog stays hidden until the
// flag is cleared.
func (m *Model) rebuildRows() {
	if m.sess.Irrelevant() {
		m.rows = nil
		m.cursor = 0
		return
	}

	var rows []row
	for _, category := range catalog.AllCategories() {
		rows = append(rows, row{kind: rowCategory, category: category})
		if !m.sess.CategorySelected(category) {
			continue
		}
		subs, err := catalog.SubcategoriesOf(category)
		if err != nil {
			continue
		}
		for _, sub := range subs {
			rows = append(rows, row{kind: rowSubcategory, category: category, subcategory: sub})
		}
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateRewrite:
		return m.handleRewriteKey(msg)
	case StateConfirm:
		return m.handleConfirmKey(msg)
	case StateHelp:
		m.state = StateEditing
		return m, nil
	case StateDone:
		m.quitting = true
		return m, tea.Quit
	case StateEditing:
		return m.handleEditingKey(msg)
	}
	return m, nil
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.ToggleHelp):
		m.state = StateHelp
		return m, nil

	case key.Matches(msg, k.ToggleDiff):
		m.showDiff = !m.showDiff
		return m, nil

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, k.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, k.Toggle):
		if m.sess.Irrelevant() {
			return m, nil
		}
		m.toggleCursor()
		return m, nil

	case key.Matches(msg, k.ScoreUp):
		if m.sess.Irrelevant() {
			return m, nil
		}
		m.adjustScore(1)
		return m, nil

	case key.Matches(msg, k.ScoreDown):
		if m.sess.Irrelevant() {
			return m, nil
		}
		m.adjustScore(-1)
		return m, nil

	case key.Matches(msg, k.Irrelevant):
		m.sess.MarkIrrelevant(!m.sess.Irrelevant())
		m.rebuildRows()
		return m, nil

	case key.Matches(msg, k.Profane):
		m.sess.MarkProfane(!m.sess.Profane())
		return m, nil

	case key.Matches(msg, k.EditRewrite):
		if !m.sess.Profane() {
			return m, nil
		}
		m.rewriteInput.SetValue(m.sess.RewrittenComment())
		m.rewriteInput.Focus()
		m.state = StateRewrite
		return m, textinput.Blink

	case key.Matches(msg, k.OverallUp):
		m.sess.SetOverallScore(float64(m.sess.OverallScore() + 1))
		return m, nil

	case key.Matches(msg, k.OverallDown):
		m.sess.SetOverallScore(float64(m.sess.OverallScore() - 1))
		return m, nil

	case key.Matches(msg, k.Accept):
		m.pendingDecision = model.DecisionAccept
		m.state = StateConfirm
		return m, nil

	case key.Matches(msg, k.Override):
		m.pendingDecision = model.DecisionOverride
		m.state = StateConfirm
		return m, nil

	case key.Matches(msg, k.Skip):
		m.pendingDecision = model.DecisionSkip
		m.state = StateConfirm
		return m, nil
	}
	return m, nil
}

func (m Model) handleRewriteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.sess.SetRewrittenComment(m.rewriteInput.Value())
		m.rewriteInput.Blur()
		m.state = StateEditing
		return m, nil
	case "esc":
		m.rewriteInput.Blur()
		m.state = StateEditing
		return m, nil
	}

	var cmd tea.Cmd
	m.rewriteInput, cmd = m.rewriteInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keymap
	switch {
	case key.Matches(msg, k.Confirm):
		payload := m.sess.BuildPayload(m.pendingDecision)
		return m, m.saveEvaluation(m.queue[m.index], payload)
	case key.Matches(msg, k.Cancel):
		m.state = StateEditing
		return m, nil
	}
	return m, nil
}

// toggleCursor flips the selection under the cursor.
func (m *Model) toggleCursor() {
	if len(m.rows) == 0 {
		return
	}
	r := m.rows[m.cursor]
	switch r.kind {
	case rowCategory:
		if m.sess.CategorySelected(r.category) {
			m.sess.DeselectCategory(r.category)
		} else if err := m.sess.SelectCategory(r.category); err != nil {
			m.lastError = err
		}
	case rowSubcategory:
		if m.subcategorySelected(r.category, r.subcategory) {
			m.sess.DeselectSubcategory(r.category, r.subcategory)
		} else if err := m.sess.SelectSubcategory(r.category, r.subcategory); err != nil {
			m.lastError = err
		}
	}
	m.rebuildRows()
}

// adjustScore nudges the score under the cursor by one step in the given
// direction.
func (m *Model) adjustScore(direction float64) {
	if len(m.rows) == 0 {
		return
	}
	r := m.rows[m.cursor]
	switch r.kind {
	case rowCategory:
		if !m.sess.CategorySelected(r.category) {
			return
		}
		m.sess.SetCategoryScore(r.category, m.sess.CategoryScore(r.category)+direction*categoryStep)
	case rowSubcategory:
		score, ok := m.subcategoryScore(r.category, r.subcategory)
		if !ok {
			return
		}
		m.sess.SetSubcategoryScore(r.category, r.subcategory, score+direction*subcategoryStep)
	}
}

func (m Model) subcategorySelected(category, subcategory string) bool {
	for _, sub := range m.sess.SelectedSubcategories(category) {
		if sub == subcategory {
			return true
		}
	}
	return false
}

func (m Model) subcategoryScore(category, subcategory string) (float64, bool) {
	for _, e := range m.sess.Entries() {
		if e.Category == category && e.Subcategory == subcategory {
			return e.SubcategoryScore, true
		}
	}
	return 0, false
}

