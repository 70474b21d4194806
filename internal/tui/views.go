package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/guestlens/guestlens/internal/cli"
	"github.com/guestlens/guestlens/internal/model"
	"github.com/guestlens/guestlens/internal/reconcile"
)

var (
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	selectedMark   = cli.SuccessStyle.Render("[x]")
	deselectedMark = cli.SubtleStyle.Render("[ ]")
	flagOnStyle    = cli.WarningStyle
	changeStyles   = map[reconcile.ChangeTag]lipgloss.Style{
		reconcile.Unchanged: cli.SubtleStyle,
		reconcile.Modified:  cli.WarningStyle,
		reconcile.New:       cli.SuccessStyle,
		reconcile.Removed:   cli.ErrorStyle,
	}
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateLoading:
		return fmt.Sprintf("\n  %s Loading reviews...\n", m.spinner.View())
	case StateDone:
		return m.renderDone()
	case StateHelp:
		return m.renderHelp()
	case StateConfirm:
		return m.renderConfirm()
	default:
		return m.renderEditing()
	}
}

func (m Model) renderEditing() string {
	var b strings.Builder

	review := m.queue[m.index]
	b.WriteString(cli.FormatTitle(fmt.Sprintf("Review %d of %d (%s)", m.index+1, len(m.queue), review.Status)))
	b.WriteString("\n\n")

	b.WriteString(cli.RenderBox("Guest Comment", wordWrap(review.QuestionResponse, m.contentWidth())))
	b.WriteString("\n")

	b.WriteString(m.renderFlags())
	b.WriteString("\n\n")

	if m.sess.Irrelevant() {
		b.WriteString(cli.SubtleStyle.Render("Category sentiments cleared; press i to un-mark irrelevant and edit."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderCatalog())
	}

	if m.state == StateRewrite {
		b.WriteString("\n")
		b.WriteString(cli.BoldStyle.Render("Rewritten comment: "))
		b.WriteString(m.rewriteInput.View())
		b.WriteString("\n")
	}

	if m.showDiff {
		b.WriteString("\n")
		b.WriteString(m.renderDiff())
	}

	if m.lastError != nil {
		b.WriteString("\n")
		b.WriteString(cli.FormatError(m.lastError.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(
		"Space toggle · +/- score · [/] overall · i irrelevant · p profane · e rewrite · a accept · o override · s skip · d changes · ? help"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderFlags() string {
	parts := []string{
		fmt.Sprintf("Overall: %d (%s)", m.sess.OverallScore(), m.sess.OverallLabel()),
	}
	if m.sess.Irrelevant() {
		parts = append(parts, flagOnStyle.Render("IRRELEVANT"))
	}
	if m.sess.Profane() {
		parts = append(parts, flagOnStyle.Render("PROFANE"))
		if rc := m.sess.RewrittenComment(); rc != "" {
			parts = append(parts, cli.SubtleStyle.Render(fmt.Sprintf("rewrite: %q", rc)))
		}
	}
	return strings.Join(parts, "  ")
}

// renderCatalog draws the category editor: one line per cursor row, with
// checkbox, name, and score where applicable.
func (m Model) renderCatalog() string {
	var b strings.Builder
	for i, r := range m.rows {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		switch r.kind {
		case rowCategory:
			mark := deselectedMark
			scoreText := ""
			if m.sess.CategorySelected(r.category) {
				mark = selectedMark
				score := m.sess.CategoryScore(r.category)
				scoreText = "  " + cli.ScoreStyle(score).Render(fmt.Sprintf("%+.1f", score))
			}
			line := fmt.Sprintf("%s%s %s%s", prefix, mark, cli.BoldStyle.Render(r.category), scoreText)
			b.WriteString(line)
		case rowSubcategory:
			mark := deselectedMark
			scoreText := ""
			if score, ok := m.subcategoryScore(r.category, r.subcategory); ok {
				mark = selectedMark
				scoreText = "  " + cli.ScoreStyle(score).Render(fmt.Sprintf("%+.2f", score))
			}
			b.WriteString(fmt.Sprintf("%s    %s %s%s", prefix, mark, r.subcategory, scoreText))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDiff summarizes what changed against the machine baseline, with
// "was X" annotations on modified scores.
func (m Model) renderDiff() string {
	report := reconcile.Diff(m.sess.Baseline().CategorySentiments, m.sess.Entries())

	var b strings.Builder
	b.WriteString(cli.BoldStyle.Render(fmt.Sprintf("Changes: %d entries, %d fields", report.EntryChanges(), m.sess.ScalarCorrections())))
	b.WriteString("\n")

	for _, c := range report.Categories {
		style := changeStyles[c.Tag]
		b.WriteString(fmt.Sprintf("  %s %s\n", style.Render(string(c.Tag)), c.Category))
		for _, s := range c.Subcategories {
			if s.Tag == reconcile.Unchanged {
				continue
			}
			annotation := ""
			if s.Tag == reconcile.Modified && s.SubcategoryScore != nil {
				annotation = cli.SubtleStyle.Render(fmt.Sprintf(" (was %+.2f, now %+.2f)",
					s.SubcategoryScore.Before, s.SubcategoryScore.After))
			}
			if s.Tag == reconcile.Removed && s.SubcategoryScore != nil {
				annotation = cli.SubtleStyle.Render(fmt.Sprintf(" (was %+.2f)", s.SubcategoryScore.Before))
			}
			b.WriteString(fmt.Sprintf("    %s %s%s\n", changeStyles[s.Tag].Render(string(s.Tag)), s.Subcategory, annotation))
		}
	}
	return b.String()
}

func (m Model) renderConfirm() string {
	var b strings.Builder

	review := m.queue[m.index]
	b.WriteString(cli.FormatTitle(fmt.Sprintf("Confirm %s for %s", m.pendingDecision, review.ResponseID)))
	b.WriteString("\n\n")

	switch m.pendingDecision {
	case model.DecisionAccept:
		b.WriteString("The machine labels will be recorded as ground truth unchanged.\n")
	case model.DecisionSkip:
		b.WriteString("The review stays in the queue; nothing is recorded.\n")
	case model.DecisionOverride:
		b.WriteString(m.renderDiff())
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render("Enter/y confirm · Esc cancel"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderDone() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cli.FormatSuccess(fmt.Sprintf("Session complete: %d validated, %d skipped", m.validated, m.skipped)))
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render("Press any key to exit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, group := range m.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-14s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(cli.SubtleStyle.Render("Press any key to return"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 76
	}
	if m.width > 100 {
		return 96
	}
	return m.width - 4
}

// wordWrap breaks text into lines no longer than width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
