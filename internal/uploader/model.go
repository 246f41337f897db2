// Package uploader is a Bubble Tea component that lets the user pick one
// image, by dropping it on the terminal or through a file dialog, and posts
// it with an upload.Uploader.
//
// The host receives the result through OnUpload and OnClose and supplies the
// way failures are shown with an Alerter.
package uploader

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jask/imgdrop/internal/upload"
)

// Alerter shows a message the user has to acknowledge.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// DefaultAccept lists the extensions the file dialog offers. Drops are not
// filtered.
var DefaultAccept = upload.ImageExtensions

const (
	defaultPickerHeight = 10
	minPickerHeight     = 3
	// rows the popup card spends around the file list: border, padding,
	// header, hint, selection line, failure line and the submit control
	pickerChrome = 13
)

// pickerHeight is how many file rows fit when the popup is drawn on a
// terminal of the given height.
func pickerHeight(termHeight int) int {
	return max(termHeight-pickerChrome, minPickerHeight)
}

// Options wires the widget to its host.
type Options struct {
	// OnUpload receives the final URL once per successful upload.
	OnUpload func(url string)
	// OnClose asks the host to dismiss the widget.
	OnClose func()
	Alert   Alerter
	Log     logrus.FieldLogger
	Context context.Context

	// StartDir is where the file dialog opens. Defaults to the working directory.
	StartDir string
	Accept   []string
}

type keyMap struct {
	Open       key.Binding
	Upload     key.Binding
	Close      key.Binding
	PickCancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "choose file")),
		Upload:     key.NewBinding(key.WithKeys("enter", "u"), key.WithHelp("enter", "upload")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		PickCancel: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "back")),
	}
}

// Model is the uploader widget.
type Model struct {
	client upload.Uploader
	opts   Options
	keys   keyMap

	state    state
	dragging bool

	picking bool
	picker  filepicker.Model
	spinner spinner.Model

	width int
}

func New(client upload.Uploader, opts Options) *Model {
	if opts.OnUpload == nil {
		opts.OnUpload = func(string) {}
	}
	if opts.OnClose == nil {
		opts.OnClose = func() {}
	}
	if opts.Alert == nil {
		opts.Alert = AlertFunc(func(string) {})
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = l
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.StartDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.StartDir = wd
		}
	}
	if len(opts.Accept) == 0 {
		opts.Accept = DefaultAccept
	}

	fp := filepicker.New()
	fp.AllowedTypes = opts.Accept
	fp.CurrentDirectory = opts.StartDir
	fp.ShowPermissions = false
	fp.AutoHeight = false
	fp.SetHeight(defaultPickerHeight)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styleAccent

	return &Model{
		client:  client,
		opts:    opts,
		keys:    defaultKeyMap(),
		state:   idle{},
		picker:  fp,
		spinner: sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DragOverMsg:
		m.dragging = true
		return m, nil
	case DragLeaveMsg:
		m.dragging = false
		return m, nil
	case DropMsg:
		m.dragging = false
		m.drop(msg.Files)
		return m, nil
	case FileChosenMsg:
		m.choose(msg.Files)
		return m, nil
	case SubmitMsg:
		return m, m.submit()
	case CloseMsg:
		m.close()
		return m, nil
	case uploadDoneMsg:
		m.finish(msg)
		return m, nil
	case spinner.TickMsg:
		if !isUploading(m.state) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.picker.SetHeight(pickerHeight(msg.Height))
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	// directory listings and errors for the file dialog
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		m.dropPaste(string(msg.Runes))
		return nil
	}
	ctl := controlsFor(m.state)

	if m.picking {
		if key.Matches(msg, m.keys.PickCancel) {
			m.picking = false
			return nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.pickPath(path)
		}
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if !ctl.fileInput {
			return nil
		}
		m.picking = true
		m.picker.CurrentDirectory = m.opts.StartDir
		return m.picker.Init()
	case key.Matches(msg, m.keys.Upload):
		return m.submit()
	case key.Matches(msg, m.keys.Close):
		m.close()
	}
	return nil
}

func (m *Model) pickPath(path string) {
	f, err := upload.Open(path)
	if err != nil {
		m.opts.Log.WithError(err).WithField("path", path).Error("open picked file")
		m.opts.Alert.Alert("Error reading file: " + err.Error())
		return
	}
	m.picking = false
	m.choose([]upload.File{f})
}

func (m *Model) dropPaste(text string) {
	if !controlsFor(m.state).fileInput {
		m.dragging = false
		return
	}
	files, err := filesFromPaste(text)
	if errors.Is(err, errEmptyDrop) {
		m.dragging = false
		return
	}
	if err != nil {
		m.dragging = false
		m.opts.Log.WithError(err).Warn("pasted text is not a file")
		m.opts.Alert.Alert("Cannot use dropped file: " + err.Error())
		return
	}
	m.Update(DropMsg{Files: files})
}

// drop keeps the first file of the payload. The drop target is disabled
// while an upload is in flight.
func (m *Model) drop(files []upload.File) {
	if isUploading(m.state) || len(files) == 0 {
		return
	}
	m.state = fileSelected{file: files[0]}
	m.picking = false
}

func (m *Model) choose(files []upload.File) {
	if !controlsFor(m.state).fileInput || len(files) == 0 {
		return
	}
	m.state = fileSelected{file: files[0]}
}

func (m *Model) submit() tea.Cmd {
	if !controlsFor(m.state).submit {
		return nil
	}
	f, _ := selection(m.state)
	m.state = uploading{file: f}
	m.picking = false

	client, ctx := m.client, m.opts.Context
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		url, err := client.Upload(ctx, f)
		return uploadDoneMsg{url: url, err: err}
	})
}

func (m *Model) finish(msg uploadDoneMsg) {
	cur, ok := m.state.(uploading)
	if !ok {
		return
	}
	if msg.err == nil {
		m.opts.Log.WithField("url", msg.url).Info("image upload success")
		m.opts.OnUpload(msg.url)
		m.opts.OnClose()
		m.state = idle{}
		return
	}

	var alert string
	if reason, ok := upload.IsServerError(msg.err); ok {
		m.opts.Log.WithField("file", cur.file.Name).Warn("upload rejected: " + reason)
		alert = "Upload failed: " + reason
	} else {
		m.opts.Log.WithError(msg.err).WithField("file", cur.file.Name).Error("error uploading file")
		alert = "Error uploading file: " + msg.err.Error()
	}
	m.opts.Alert.Alert(alert)
	m.state = failed{file: cur.file, reason: msg.err.Error()}
}

func (m *Model) close() {
	if !controlsFor(m.state).close {
		return
	}
	m.opts.OnClose()
}

