package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/nature42/pkg/chat"
	"github.com/jwebster45206/nature42/pkg/state"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "What do you do?"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	gameState    *state.GameState
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// transcript holds the rendered conversation. The game state's
	// conversation history is capped for parser context, so the
	// on-screen log is kept separately.
	transcript []chat.ChatMessage

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type commandResultMsg struct {
	outcome *commandOutcome
	err     error
}

type shareResultMsg struct {
	share *ShareResponse
	err   error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	victoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // gold
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, gs *state.GameState) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		gameState:    gs,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		ready:        false,
	}
}

func writeIntro(gs *state.GameState, chatWidth int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("NATURE42") + "\n\n")
	content.WriteString("Six doors. Six keys. One vault.\n")
	content.WriteString("Type commands below to explore. Try 'look around' or 'help'.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	if loc, ok := gs.CurrentLocation(); ok {
		content.WriteString(formatNarratorResponse(loc.Description, chatWidth) + "\n\n")
	}
	return content.String()
}

func writeMetadata(gs *state.GameState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("YOUR QUEST") + "\n\n")

	content.WriteString("Location:\n")
	if gs.CurrentDoor > 0 {
		content.WriteString(fmt.Sprintf("Door %d world\n\n", gs.CurrentDoor))
	} else {
		content.WriteString("Forest Clearing\n\n")
	}

	content.WriteString(fmt.Sprintf("Keys: %d/%d\n", len(gs.KeysCollected), state.DoorCount))
	if len(gs.KeysCollected) > 0 {
		content.WriteString("Inserted: ")
		for i, k := range gs.KeysCollected {
			if i > 0 {
				content.WriteString(", ")
			}
			content.WriteString(fmt.Sprintf("#%d", k))
		}
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString("Inventory:\n")
	if len(gs.Inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range gs.Inventory {
			content.WriteString("• " + item.Name + "\n")
		}
	}
	content.WriteString("\n")

	content.WriteString(fmt.Sprintf("Places visited: %d\n", len(gs.VisitedLocations)))
	content.WriteString(fmt.Sprintf("Decisions made: %d\n\n", len(gs.DecisionHistory)))

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /share: Share a postcard\n")

	return content.String()
}

// writeChatContent rebuilds the chat log for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	if len(m.transcript) == 0 {
		m.chatViewport.SetContent(writeIntro(m.gameState, chatWidth))
		return
	}

	var content strings.Builder
	content.WriteString(writeIntro(m.gameState, chatWidth))

	for _, msg := range m.transcript {
		switch msg.Role {
		case chat.ChatRoleAgent:
			content.WriteString(formatNarratorResponse(msg.Content, chatWidth) + "\n\n")
		case chat.ChatRoleUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, max(chatWidth-6, 1)) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.gameState))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleSlashCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0

			m.transcript = append(m.transcript, chat.ChatMessage{
				Role:    chat.ChatRoleUser,
				Content: input,
			})
			m.writeChatContent()

			return m, tea.Batch(m.sendCommandCmd(input), progressTick())
		}

	case commandResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
			m.chatViewport.GotoBottom()
			return m, nil
		}

		m.applyOutcome(msg.outcome)
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.gameState))
		return m, nil

	case shareResultMsg:
		m.loading = false
		var note string
		if msg.err != nil {
			note = errorStyle.Render("Could not create a postcard: " + msg.err.Error())
		} else {
			url := msg.share.ShareURL
			if err := clipboard.WriteAll(url); err == nil {
				note = victoryStyle.Render("Postcard created! Link copied to clipboard:") + "\n" + url
			} else {
				note = victoryStyle.Render("Postcard created! Share this link:") + "\n" + url
			}
		}
		m.writeChatContent()
		m.chatViewport.SetContent(m.chatViewport.View() + note + "\n\n")
		m.chatViewport.GotoBottom()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// applyOutcome merges one turn's deltas into the local game state and
// appends the narration to the transcript.
func (m *ConsoleUI) applyOutcome(outcome *commandOutcome) {
	if outcome.Changes != nil && !outcome.Changes.IsEmpty() {
		if err := outcome.Changes.ApplyTo(m.gameState); err != nil {
			m.err = err
		}
	}

	message := outcome.Message
	if outcome.Changes != nil && outcome.Changes.GameCompleted {
		message += "\n\n" + victoryStyle.Render("★ Quest complete! ★")
	}

	m.transcript = append(m.transcript, chat.ChatMessage{
		Role:    chat.ChatRoleAgent,
		Content: message,
	})

	// Mirror the server's parser context so follow-up commands like
	// "talk to him again" resolve against recent turns.
	m.gameState.ConversationHistory = chat.AppendToWindow(m.gameState.ConversationHistory,
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: lastUserMessage(m.transcript)},
		chat.ChatMessage{Role: chat.ChatRoleAgent, Content: outcome.Message},
	)
}

func lastUserMessage(transcript []chat.ChatMessage) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == chat.ChatRoleUser {
			return transcript[i].Content
		}
	}
	return ""
}

func formatNarratorResponse(response string, width int) string {
	narratorPrefix := AgentName + ": "
	wrapped := wordwrap.String(response, max(width-len(narratorPrefix), 1))
	return narratorStyle.Render(narratorPrefix) + wrapped
}

func (m ConsoleUI) handleSlashCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /share - Create a shareable postcard of your progress
• Ctrl+C - Quit game

How to play:
• Type actions like 'open door 3', 'take the lantern', 'talk to the fox'
• Collect all six keys and insert them into the vault
• 'back' always returns you to the forest clearing
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()
		return m, nil

	case "/share":
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.createShareCmd(), progressTick())
	}

	return m, nil
}

func (m ConsoleUI) sendCommandCmd(input string) tea.Cmd {
	return func() tea.Msg {
		outcome, err := sendCommand(m.client, m.config.APIBaseURL, m.gameState, input)
		return commandResultMsg{outcome, err}
	}
}

func (m ConsoleUI) createShareCmd() tea.Cmd {
	return func() tea.Msg {
		share, err := createShare(m.client, m.config.APIBaseURL, m.gameState)
		return shareResultMsg{share, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the forest?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
