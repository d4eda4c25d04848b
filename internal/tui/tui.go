package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/party-house/internal/controller"
	"github.com/tatianab/party-house/internal/models"
)

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateBusy
	stateChoosing
	stateError
)

type model struct {
	state     sessionState
	ctrl      *controller.Controller
	view      controller.View
	textInput textinput.Model
	viewport  viewport.Model
	prompt    *chooseMsg
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	noticeStyles = map[controller.NoticeKind]lipgloss.Style{
		controller.NoticeInfo:       gameStyle,
		controller.NoticeRejected:   helpStyle,
		controller.NoticeTrouble:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		controller.NoticePartyEnded: lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
		controller.NoticeWon:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		controller.NoticeLost:       lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")).Bold(true),
	}
)

func NewModel(ctrl *controller.Controller) model {
	ti := textinput.New()
	ti.Placeholder = "door, end, next, buy <n>, upgrade, use <n>"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return model{
		state:     stateLoading,
		ctrl:      ctrl,
		textInput: ti,
	}
}

type actionDoneMsg struct {
	view controller.View
	err  error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.run(m.ctrl.Start))
}

// run performs a controller action off the event loop and snapshots the
// result for rendering.
func (m model) run(action func(ctx context.Context) error) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		err := action(context.Background())
		return actionDoneMsg{view: ctrl.View(), err: err}
	}
}

func (m *model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m *model) appendLog(s string) {
	m.gameLog += s + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m *model) answer(n int, ok bool) {
	if m.prompt == nil {
		return
	}
	m.prompt.reply <- choice{n: n, ok: ok}
	m.prompt = nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.answer(0, false)
			return m, tea.Quit

		case tea.KeyEsc:
			if m.state == stateChoosing {
				m.answer(0, false)
				m.state = stateBusy
				m.textInput.Reset()
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()
			switch m.state {
			case stateChoosing:
				m.appendLog(userStyle.Width(m.logWidth()).Render("> " + input))
				m.answer(parseChoice(input, len(m.prompt.options)))
				m.state = stateBusy
				return m, nil
			case statePlaying:
				if input == "" {
					return m, nil
				}
				m.appendLog(userStyle.Width(m.logWidth()).Render("> " + input))
				return m.dispatch(input)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
		} else {
			m.viewport.Width = m.logWidth()
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.gameLog)

	case noticeMsg:
		style, ok := noticeStyles[msg.Kind]
		if !ok {
			style = gameStyle
		}
		m.appendLog(style.Width(m.logWidth()).Render(msg.Text))
		return m, nil

	case chooseMsg:
		m.prompt = &msg
		m.state = stateChoosing
		var b strings.Builder
		b.WriteString(msg.prompt)
		for i, o := range msg.options {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, o)
		}
		b.WriteString("\n(number to pick, Esc to cancel)")
		m.appendLog(titleStyle.Render(b.String()))
		return m, nil

	case actionDoneMsg:
		m.view = msg.view
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.state = statePlaying
		return m, nil
	}

	if m.state == statePlaying || m.state == stateChoosing {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) dispatch(input string) (tea.Model, tea.Cmd) {
	c, err := parseCommand(input)
	if err != nil {
		m.appendLog(helpStyle.Render(err.Error()))
		return m, nil
	}

	ctrl := m.ctrl
	var action func(ctx context.Context) error
	switch c.kind {
	case cmdQuit:
		return m, tea.Quit
	case cmdRestart:
		m.gameLog = ""
		action = ctrl.Start
	case cmdDoor:
		action = ctrl.OpenDoor
	case cmdEnd:
		action = ctrl.EndRound
	case cmdNext:
		action = ctrl.NextRound
	case cmdForfeit:
		action = ctrl.Forfeit
	case cmdUpgrade:
		action = func(context.Context) error {
			ctrl.Upgrade()
			return nil
		}
	case cmdBuy:
		if c.arg > len(m.view.Shop) {
			m.appendLog(helpStyle.Render(fmt.Sprintf("There is no shop item %d.", c.arg)))
			return m, nil
		}
		key := m.view.Shop[c.arg-1].Def.Key
		action = func(context.Context) error {
			ctrl.Buy(key)
			return nil
		}
	case cmdUse:
		if c.arg > len(m.view.Abilities) {
			m.appendLog(helpStyle.Render(fmt.Sprintf("There is no ability %d.", c.arg)))
			return m, nil
		}
		a := m.view.Abilities[c.arg-1]
		action = func(ctx context.Context) error {
			_, err := ctrl.UseAbility(ctx, a.Kind, a.Guest.ID)
			return err
		}
	}

	m.state = stateBusy
	return m, m.run(action)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = "\n  Setting up the party house...\n"

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)

	default:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+helpStyle.Render(m.help()),
		)
	}

	return "\n" + s + "\n"
}

func (m model) help() string {
	st := m.view.State
	switch {
	case m.state == stateChoosing:
		return "Type the number of your choice, or Esc to cancel."
	case st.Over():
		return "Commands: /restart, /quit"
	case st.IsPartyPhase():
		return "Commands: door, end, use <n>, /forfeit, /restart, /quit"
	default:
		return "Commands: buy <n>, upgrade, next, /forfeit, /restart, /quit"
	}
}

func (m model) renderState() string {
	v := m.view
	st := v.State
	var b strings.Builder

	phase := "PARTY"
	if !st.IsPartyPhase() {
		phase = "SHOP"
	}
	switch st.Result {
	case models.Won:
		phase = "WON"
	case models.Lost:
		phase = "LOST"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("ROUND %d/%d  %s", st.CurrentRound, st.MaxRounds, phase)) + "\n")
	fmt.Fprintf(&b, "Popularity: %d\nCash: %d\nHouse: %d/%d\n", st.Popularity, st.Cash, len(st.HouseGuests), st.HouseCapacity)
	fmt.Fprintf(&b, "Trouble: %d/%d\nStars: %d/%d\nWin streak: %d\n\n",
		v.Status.Trouble, models.TroubleLimit, v.Status.Stars, models.StarsToWin, v.WinStreak)

	if st.IsPartyPhase() {
		b.WriteString(titleStyle.Render("HOUSE") + "\n")
		if len(st.HouseGuests) == 0 {
			b.WriteString("(empty)\n")
		}
		for _, g := range st.HouseGuests {
			b.WriteString("- " + guestLine(g) + "\n")
		}
		b.WriteString("\n")

		if len(v.Abilities) > 0 {
			b.WriteString(titleStyle.Render("ABILITIES") + "\n")
			for i, a := range v.Abilities {
				used := ""
				if a.Used {
					used = " (used)"
				}
				fmt.Fprintf(&b, "%d. %s: %s%s\n", i+1, a.Guest.Name(), a.Kind, used)
			}
			b.WriteString("\n")
		}

		b.WriteString(titleStyle.Render("WAITING OUTSIDE") + "\n")
		if len(v.Pool) == 0 {
			b.WriteString("(nobody)\n")
		}
		for _, p := range v.Pool {
			fmt.Fprintf(&b, "%s x%d\n", p.Def.Name, p.Count)
		}
	} else {
		b.WriteString(titleStyle.Render("SHOP") + "\n")
		for i, item := range v.Shop {
			note := ""
			switch {
			case item.SoldOut:
				note = " (sold out)"
			case !item.Def.IsStar():
				note = fmt.Sprintf(" (%d/%d)", item.Bought, models.MaxNonStarCopies)
			}
			fmt.Fprintf(&b, "%d. %s: %d pop%s\n", i+1, item.Def.Name, item.Def.Cost, note)
		}
		if st.HouseCapacity < models.MaxCapacity {
			fmt.Fprintf(&b, "\nUpgrade house: %d cash\n", v.UpgradeCost)
		} else {
			b.WriteString("\nHouse at maximum size\n")
		}
	}

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func guestLine(g *models.GuestInstance) string {
	var parts []string
	if g.Popularity != 0 {
		parts = append(parts, fmt.Sprintf("%+d pop", g.Popularity))
	}
	if g.Cash != 0 {
		parts = append(parts, fmt.Sprintf("%+d cash", g.Cash))
	}
	if g.Trouble != 0 {
		parts = append(parts, "trouble")
	}
	if g.Star != 0 {
		parts = append(parts, "star")
	}
	if len(parts) == 0 {
		return g.Name()
	}
	return g.Name() + " (" + strings.Join(parts, ", ") + ")"
}

// Run starts the interactive game. The bridge must be the controller's
// notifier and chooser.
func Run(ctrl *controller.Controller, bridge *Bridge) error {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	bridge.Attach(p.Send)
	_, err := p.Run()
	return err
}
