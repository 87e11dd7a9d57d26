package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/programme-lv/grievance/grievance"
)

type focus int

const (
	focusGrievance focus = iota
	focusSeverity
	focusDate
	focusSubmit
	focusCount
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9b59b6"))
	counterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9b59b6"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0392b"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2c6e49"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

type submitResultMsg struct {
	outcome grievance.Outcome
}

// formModel is the terminal version of the portal page. It keeps one
// session for as long as the program runs.
type formModel struct {
	ctx      context.Context
	workflow *grievance.Workflow
	sess     *grievance.Session

	focus    focus
	message  textarea.Model
	date     textinput.Model
	cursor   int
	severity grievance.Severity
	options  []grievance.SeverityOption
	fields   grievance.FieldErrors
	notice   *grievance.Notification
	count    int
	inflight int
}

func newFormModel(ctx context.Context, workflow *grievance.Workflow) formModel {
	sess := grievance.NewSession(uuid.New(), workflow.Now())

	ta := textarea.New()
	ta.Placeholder = "What did I do this time?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = grievance.DateLayout
	ti.CharLimit = len(grievance.DateLayout)
	ti.Width = len(grievance.DateLayout)
	ti.Prompt = ""

	m := formModel{
		ctx:      ctx,
		workflow: workflow,
		sess:     sess,
		message:  ta,
		date:     ti,
		options:  grievance.Severities(),
	}
	m.loadDraft(sess.Draft())
	return m
}

func (m formModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		m.inflight--
		return m.applyOutcome(msg.outcome), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			return m.moveFocus(1)
		case "shift+tab":
			return m.moveFocus(-1)
		case "ctrl+s":
			return m.submit()
		}

		switch m.focus {
		case focusSeverity:
			switch msg.String() {
			case "up", "k", "left", "h":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j", "right", "l":
				if m.cursor < len(m.options)-1 {
					m.cursor++
				}
			case " ", "enter":
				m.severity = m.options[m.cursor].Value
			}
			return m, nil
		case focusSubmit:
			if msg.String() == "enter" {
				return m.submit()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusGrievance:
		m.message, cmd = m.message.Update(msg)
	case focusDate:
		m.date, cmd = m.date.Update(msg)
	}
	return m, cmd
}

func (m formModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.focus = (m.focus + focus(delta) + focusCount) % focusCount
	m.message.Blur()
	m.date.Blur()

	switch m.focus {
	case focusGrievance:
		return m, m.message.Focus()
	case focusDate:
		return m, m.date.Focus()
	}
	return m, nil
}

// submit starts one attempt with a snapshot of the current inputs. Further
// submits are accepted while it runs.
func (m formModel) submit() (tea.Model, tea.Cmd) {
	m.inflight++

	ctx, workflow, sess, draft := m.ctx, m.workflow, m.sess, m.currentDraft()
	return m, func() tea.Msg {
		return submitResultMsg{outcome: workflow.SubmitDraft(ctx, sess, draft)}
	}
}

func (m formModel) applyOutcome(out grievance.Outcome) formModel {
	m.count = m.sess.Count()

	switch out.Status {
	case grievance.OutcomeInvalid:
		m.fields = out.Fields
		m.notice = nil
	case grievance.OutcomeSucceeded:
		m.fields = nil
		m.notice = out.Notification
		m.loadDraft(m.sess.Draft())
	case grievance.OutcomeFailed:
		m.fields = nil
		m.notice = out.Notification
	}
	return m
}

func (m formModel) currentDraft() grievance.Draft {
	return grievance.Draft{
		Grievance: m.message.Value(),
		Severity:  m.severity,
		Date:      strings.TrimSpace(m.date.Value()),
	}
}

func (m *formModel) loadDraft(d grievance.Draft) {
	m.message.SetValue(d.Grievance)
	m.date.SetValue(d.Date)
	m.severity = d.Severity
	m.cursor = 0
	for i, opt := range m.options {
		if opt.Value == d.Severity {
			m.cursor = i
		}
	}
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("What's wrong?") + "\n")
	b.WriteString(hintStyle.Render("Finally made the grievance portal you're welcome") + "\n\n")
	b.WriteString(counterStyle.Render(fmt.Sprintf("Total Grievances Filed: %d", m.count)) + "\n\n")

	if m.notice != nil {
		style := successStyle
		if m.notice.Kind == grievance.NotificationFailure {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice.Title+" "+m.notice.Description) + "\n\n")
	}

	b.WriteString(m.label(focusGrievance, "Grievance here please") + "\n")
	b.WriteString(m.message.View() + "\n")
	b.WriteString(m.fieldErrors(grievance.FieldGrievance))

	b.WriteString("\n" + m.label(focusSeverity, "Severity Level") + "\n")
	for i, opt := range m.options {
		pointer := "  "
		if m.focus == focusSeverity && i == m.cursor {
			pointer = "> "
		}
		radio := "( )"
		if opt.Value == m.severity {
			radio = "(x)"
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", pointer, radio, opt.Label, hintStyle.Render("e.g. "+opt.Example)))
	}
	b.WriteString(m.fieldErrors(grievance.FieldSeverity))

	b.WriteString("\n" + m.label(focusDate, "Date of Incident") + "\n")
	b.WriteString(m.date.View() + "\n")
	b.WriteString(m.fieldErrors(grievance.FieldDate))

	b.WriteString("\n" + m.label(focusSubmit, "[ Submit Grievance ]") + "\n")
	if m.inflight > 0 {
		b.WriteString(hintStyle.Render("Submitting...") + "\n")
	}

	b.WriteString("\n" + hintStyle.Render("tab: next field  space: pick severity  ctrl+s: submit  esc: quit") + "\n")
	return b.String()
}

func (m formModel) label(f focus, text string) string {
	if m.focus == f {
		return activeStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m formModel) fieldErrors(field string) string {
	var b strings.Builder
	for _, msg := range m.fields[field] {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	return b.String()
}
