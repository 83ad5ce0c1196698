package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/nazedev/botpanel/internal/watch"
)

var (
	cardBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	codeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	offStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	stateStyles = map[string]lipgloss.Style{
		"online":       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		"pairing":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		"connecting":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		"initializing": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		"offline":      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
)

// cardRenderer draws one bordered status card per poll.
type cardRenderer struct {
	out io.Writer
}

func (r cardRenderer) Render(v watch.View) {
	fmt.Fprintln(r.out, renderCard(v))
}

func (r cardRenderer) Disconnected(err error) {
	fmt.Fprintln(r.out, cardBorder.Render(offStyle.Render("Disconnected")+"\n"+err.Error()))
}

func renderCard(v watch.View) string {
	state := v.Status.ConnectionStatus
	style, ok := stateStyles[state]
	if !ok {
		style = lipgloss.NewStyle().Bold(true)
	}

	phone := "No phone connected"
	if v.Status.PhoneNumber != nil {
		phone = "+" + *v.Status.PhoneNumber
	}

	rows := []string{
		row("State", style.Render(state)),
		row("Status", v.Status.Status),
		row("Phone", phone),
	}
	if code := v.PairingCode(); code != "" {
		rows = append(rows,
			row("Code", codeStyle.Render(code)),
			row("Expires in", v.Remaining.Truncate(time.Second).String()),
		)
	}
	if v.Status.BotName != "" {
		rows = append(rows, row("Bot", v.Status.BotName))
	}
	if !v.FetchedAt.IsZero() {
		rows = append(rows, row("Updated", v.FetchedAt.Format(time.TimeOnly)))
	}
	return cardBorder.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
