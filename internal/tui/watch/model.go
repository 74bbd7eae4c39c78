package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattjoyce/usergate/internal/storage"
)

const deliveryLimit = 50

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	apiURL string

	width  int
	height int

	// State
	health     healthMsg
	deliveries []storage.Delivery
	lastTick   time.Time

	// UI state
	table table.Model
	theme Theme

	// Error display
	lastError string
}

// New creates a new watch TUI model.
func New(apiURL string) *Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Received", Width: 19},
			{Title: "Event", Width: 20},
			{Title: "Outcome", Width: 8},
			{Title: "User", Width: 24},
			{Title: "Svix ID", Width: 28},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return &Model{
		apiURL: apiURL,
		table:  t,
		theme:  NewDefaultTheme(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		fetchHealth(m.apiURL),
		fetchDeliveries(m.apiURL, deliveryLimit),
		tick(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Height > 10 {
			m.table.SetHeight(msg.Height - 7)
		}

	case tickMsg:
		m.lastTick = time.Time(msg)
		return m, tea.Batch(
			fetchHealth(m.apiURL),
			fetchDeliveries(m.apiURL, deliveryLimit),
			tick(),
		)

	case healthMsg:
		m.health = msg
		m.lastError = ""

	case deliveriesMsg:
		m.deliveries = msg
		m.table.SetRows(m.deliveryRows())

	case errMsg:
		m.lastError = msg.Error()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) deliveryRows() []table.Row {
	rows := make([]table.Row, 0, len(m.deliveries))
	for _, d := range m.deliveries {
		rows = append(rows, table.Row{
			d.ReceivedAt.Local().Format("2006-01-02 15:04:05"),
			d.EventType,
			d.Outcome,
			d.ExternalID,
			d.MessageID,
		})
	}
	return rows
}

func (m *Model) View() string {
	title := m.theme.Title.Render("usergate watch")

	status := m.theme.Dim.Render("connecting...")
	if m.health.Status != "" {
		status = fmt.Sprintf("%s  up %s  %s",
			m.theme.Synced.Render(m.health.Status),
			(time.Duration(m.health.UptimeSeconds) * time.Second).String(),
			m.theme.Dim.Render(m.apiURL),
		)
	}

	footer := m.theme.Dim.Render("q to quit")
	if m.lastError != "" {
		footer = m.theme.Err.Render("error: " + m.lastError)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		status,
		m.theme.Border.Render(m.table.View()),
		footer,
	)
}
