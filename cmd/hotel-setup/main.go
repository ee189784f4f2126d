package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultAPIURL = "http://localhost:8080"
	merchantRole  = "merchant"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringEmail step = iota
	stepSendingCode
	stepEnteringCode
	stepEnteringUsername
	stepEnteringPassword
	stepRegistering
	stepLoggingIn
	stepComplete
)

type model struct {
	api          *apiClient
	step         step
	email        string
	code         string
	username     string
	password     string
	user         account
	token        string
	currentInput string
	message      string
	quitting     bool
}

type codeSentMsg struct{}
type registeredMsg struct{ user account }
type loginSuccessMsg struct {
	user  account
	token string
}

// errMsg carries the step to fall back to so the user can retry.
type errMsg struct {
	err  error
	back step
}

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *apiClient) model {
	return model{
		api:  api,
		step: stepEnteringEmail,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func sendCode(api *apiClient, email string) tea.Cmd {
	return func() tea.Msg {
		if err := api.sendCode(email); err != nil {
			return errMsg{err: err, back: stepEnteringEmail}
		}
		return codeSentMsg{}
	}
}

func registerMerchant(api *apiClient, username, password, email, code string) tea.Cmd {
	return func() tea.Msg {
		user, err := api.register(username, password, email, code, merchantRole)
		if err != nil {
			return errMsg{err: err, back: stepEnteringCode}
		}
		return registeredMsg{user: *user}
	}
}

func loginMerchant(api *apiClient, username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := api.login(username, password)
		if err != nil {
			return errMsg{err: err, back: stepEnteringUsername}
		}
		return loginSuccessMsg{user: result.User, token: result.Token}
	}
}

func (m model) typing() bool {
	switch m.step {
	case stepEnteringEmail, stepEnteringCode, stepEnteringUsername, stepEnteringPassword:
		return true
	}
	return false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyBackspace:
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		case tea.KeyRunes, tea.KeySpace:
			if m.typing() {
				m.currentInput += string(msg.Runes)
			}

		case tea.KeyEnter:
			return m.submit()
		}

	case codeSentMsg:
		m.step = stepEnteringCode
		m.message = successStyle.Render("✓ Code sent to " + m.email)

	case registeredMsg:
		m.user = msg.user
		m.step = stepLoggingIn
		m.message = "Logging in..."
		return m, loginMerchant(m.api, m.username, m.password)

	case loginSuccessMsg:
		m.user = msg.user
		m.token = msg.token
		m.password = ""
		m.step = stepComplete
		m.message = successStyle.Render("✓ Merchant account ready: " + m.user.Username)

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		m.step = msg.back
		m.currentInput = ""
	}

	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.currentInput)

	switch m.step {
	case stepEnteringEmail:
		if input != "" {
			m.email = input
			m.currentInput = ""
			m.step = stepSendingCode
			m.message = "Sending verification code..."
			return m, sendCode(m.api, m.email)
		}

	case stepEnteringCode:
		if input != "" {
			m.code = input
			m.currentInput = ""
			m.step = stepEnteringUsername
			m.message = ""
		}

	case stepEnteringUsername:
		if input != "" {
			m.username = input
			m.currentInput = ""
			m.step = stepEnteringPassword
		}

	case stepEnteringPassword:
		if m.currentInput != "" {
			m.password = m.currentInput
			m.currentInput = ""
			m.step = stepRegistering
			m.message = "Creating account..."
			return m, registerMerchant(m.api, m.username, m.password, m.email, m.code)
		}

	case stepComplete:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Hotel Merchant Setup\n\n"))

	if m.message != "" && m.step != stepComplete {
		s.WriteString(m.message + "\n\n")
	}

	switch m.step {
	case stepEnteringEmail:
		s.WriteString(promptStyle.Render("Enter your email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringCode:
		s.WriteString(promptStyle.Render("Enter the 6-character code from your inbox:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringUsername:
		s.WriteString(promptStyle.Render("Choose a username:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringPassword:
		s.WriteString(promptStyle.Render("Choose a password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepComplete:
		s.WriteString(m.message + "\n\n")
		s.WriteString(fmt.Sprintf("User ID: %s\n", m.user.ID))
		s.WriteString(fmt.Sprintf("Token:   %s\n", m.token))
		s.WriteString("\nPress Enter to exit\n")
	}

	s.WriteString(hintStyle.Render("\n(Esc to quit)"))
	return s.String()
}

func main() {
	apiURL := os.Getenv("HOTEL_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	p := tea.NewProgram(initialModel(newAPIClient(apiURL)))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
