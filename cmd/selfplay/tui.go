package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/notnil/chess"
)

type tickMsg time.Time

// doneMsg tells the view that no more games will come.
type doneMsg struct{}

type model struct {
	updates   <-chan gameUpdate
	total     int
	played    int
	plies     int
	whiteWins int
	blackWins int
	draws     int
	unfinish  int
	startTime time.Time
	recent    []string
	done      bool
}

func newModel(updates <-chan gameUpdate, total int) model {
	return model{updates: updates, total: total, startTime: time.Now()}
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates <-chan gameUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return u
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case gameUpdate:
		m = m.add(msg)
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func (m model) add(u gameUpdate) model {
	m.played++
	m.plies += u.Plies
	switch u.Outcome {
	case chess.WhiteWon:
		m.whiteWins++
	case chess.BlackWon:
		m.blackWins++
	case chess.Draw:
		m.draws++
	default:
		m.unfinish++
	}

	line := fmt.Sprintf("#%d %s vs %s: %s %s in %d plies", u.ID, u.White, u.Black, u.Outcome, u.Method, u.Plies)
	if u.Err != nil {
		line += " (" + u.Err.Error() + ")"
	}
	m.recent = append([]string{line}, m.recent...)
	if len(m.recent) > 10 {
		m.recent = m.recent[:10]
	}
	return m
}

func (m model) View() string {
	elapsed := time.Since(m.startTime)
	pliesPerSec := 0.0
	if elapsed >= time.Second {
		pliesPerSec = float64(m.plies) / elapsed.Seconds()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Games:      %d / %d\n", m.played, m.total)
	fmt.Fprintf(&b, "White wins: %d\n", m.whiteWins)
	fmt.Fprintf(&b, "Black wins: %d\n", m.blackWins)
	fmt.Fprintf(&b, "Draws:      %d\n", m.draws)
	fmt.Fprintf(&b, "Unfinished: %d\n", m.unfinish)
	fmt.Fprintf(&b, "Duration:   %s\n", elapsed.Round(time.Second))
	fmt.Fprintf(&b, "Plies/sec:  %.2f\n\n", pliesPerSec)

	b.WriteString("Recent games:\n")
	for _, line := range m.recent {
		b.WriteString(line + "\n")
	}
	b.WriteString("\nPress q to quit.\n")
	return b.String()
}
