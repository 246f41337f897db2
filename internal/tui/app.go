package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jask/imgdrop/internal/config"
	"github.com/jask/imgdrop/internal/history"
	"github.com/jask/imgdrop/internal/upload"
	"github.com/jask/imgdrop/internal/uploader"
)

// App is the host screen. It owns the uploader popup and decides what
// happens with its results.
type App struct {
	ctx     context.Context
	cfg     config.Config
	client  upload.Uploader
	history *history.Repo
	log     logrus.FieldLogger

	popup   *uploader.Model
	alert   string
	recent  []history.Upload
	lastURL string
	status  string
	cursor  int
	width   int
	height  int

	// set by a ctrl+c refused during an upload; the next one aborts it
	quitArmed bool

	preselect *upload.File
	// commands queued by popup callbacks, flushed after each forward
	pending []tea.Cmd
}

// Deps are the collaborators the host needs.
type Deps struct {
	Client  upload.Uploader
	History *history.Repo // optional
	Log     logrus.FieldLogger
}

func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &App{
		ctx:     ctx,
		cfg:     cfg,
		client:  deps.Client,
		history: deps.History,
		log:     log,
	}
}

// Preselect opens the popup on start with f already chosen.
func (a *App) Preselect(f upload.File) {
	a.preselect = &f
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadRecent()}
	if a.preselect != nil {
		a.openPopup()
		cmds = append(cmds, a.forward(uploader.FileChosenMsg{Files: []upload.File{*a.preselect}}))
		a.preselect = nil
	}
	return tea.Batch(cmds...)
}

func (a *App) openPopup() {
	a.popup = uploader.New(a.client, uploader.Options{
		OnUpload: a.onUpload,
		OnClose:  a.onClose,
		Alert:    uploader.AlertFunc(a.showAlert),
		Log:      a.log,
		Context:  a.ctx,
		StartDir: a.cfg.UI.StartDir,
		Accept:   a.cfg.UI.Accept,
	})
	if a.width > 0 {
		a.popup.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
}

func (a *App) onUpload(url string) {
	a.lastURL = url
	a.status = "uploaded"
	a.pending = append(a.pending, a.loadRecent())
}

func (a *App) onClose() {
	a.popup = nil
	a.quitArmed = false
}

func (a *App) showAlert(msg string) {
	a.alert = msg
	a.quitArmed = false
}

// forward hands msg to the popup and collects what its callbacks queued.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	if a.popup == nil {
		return nil
	}
	_, cmd := a.popup.Update(msg)
	cmds := append([]tea.Cmd{cmd}, a.pending...)
	a.pending = nil
	return tea.Batch(cmds...)
}

// quit leaves the program from the home screen. With the popup open it goes
// through the popup's close control, which refuses while uploading.
func (a *App) quit() tea.Cmd {
	if a.popup == nil || a.quitArmed {
		return tea.Quit
	}
	cmd := a.forward(uploader.CloseMsg{})
	if a.popup == nil {
		return tea.Batch(cmd, tea.Quit)
	}
	a.quitArmed = true
	a.status = "upload in progress, ctrl+c again to abort"
	return cmd
}

func (a *App) loadRecent() tea.Cmd {
	return func() tea.Msg {
		if a.history == nil {
			return recentMsg(nil)
		}
		list, err := a.history.Recent(a.ctx, a.cfg.History.Limit)
		if err != nil {
			return errMsg{err}
		}
		return recentMsg(list)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, a.forward(m)
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, a.quit()
		}
		if a.alert != "" {
			switch m.String() {
			case "enter", "esc":
				a.alert = ""
			}
			return a, nil
		}
		if a.popup != nil {
			return a, a.forward(m)
		}
		if m.Paste {
			// a file dragged onto the terminal opens the uploader with it
			a.openPopup()
			return a, a.forward(m)
		}
		switch m.String() {
		case "q":
			return a, tea.Quit
		case "n", "enter":
			a.openPopup()
			a.status = ""
		case "r":
			return a, a.loadRecent()
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case "down", "j":
			if a.cursor < len(a.recent)-1 {
				a.cursor++
			}
		}
		return a, nil
	case recentMsg:
		a.recent = []history.Upload(m)
		if a.cursor >= len(a.recent) {
			a.cursor = 0
		}
		return a, nil
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.WithError(m.error).Error("history")
		return a, nil
	}
	// spinner ticks, upload results and file dialog listings
	return a, a.forward(msg)
}

func (a *App) View() string {
	body := a.renderHome()
	if a.popup != nil {
		body = renderPopup(body, a.popup.View(), colorPink, a.width, a.height)
	}
	if a.alert != "" {
		body = renderPopup(body, a.renderAlert(), colorRed, a.width, a.height)
	}
	return body
}

func (a *App) renderHome() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("imgdrop"))
	b.WriteString("  ")
	b.WriteString(styleMuted.Render(a.cfg.Upload.BaseURL))
	b.WriteString("\n\n")

	if a.lastURL != "" {
		b.WriteString(styleMuted.Render("Last upload: "))
		b.WriteString(styleURL.Render(a.lastURL))
		b.WriteString("\n\n")
	}

	b.WriteString(styleHeader.Render("Recent uploads"))
	b.WriteString("\n")
	if len(a.recent) == 0 {
		b.WriteString(styleMuted.Render("  nothing uploaded yet"))
		b.WriteString("\n")
	}
	for i, u := range a.recent {
		line := fmt.Sprintf("%s  %-24s %s", u.UploadedAt.Local().Format("2006-01-02 15:04"), clip(u.FileName, 24), u.URL)
		if i == a.cursor {
			b.WriteString(styleCursor.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if a.status != "" {
		b.WriteString(styleStatus.Render(a.status))
		b.WriteString("\n")
	}
	b.WriteString(styleMuted.Render("n upload · drop a file to upload it · r refresh · q quit"))
	return b.String()
}

func (a *App) renderAlert() string {
	text := lipgloss.NewStyle().Width(min(48, max(a.width-10, 20))).Render(a.alert)
	return text + "\n\n" + styleMuted.Render("enter ok")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

type recentMsg []history.Upload

type errMsg struct{ error }
