package uploader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/imgdrop/internal/upload"
)

type fakeUploader struct {
	mu    sync.Mutex
	url   string
	err   error
	calls []upload.File
}

func (f *fakeUploader) Upload(_ context.Context, file upload.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, file)
	return f.url, f.err
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type harness struct {
	m      *Model
	events []string
	alerts []string
}

func newHarness(t *testing.T, client upload.Uploader) *harness {
	t.Helper()
	h := &harness{}
	h.m = New(client, Options{
		OnUpload: func(url string) { h.events = append(h.events, "upload:"+url) },
		OnClose:  func() { h.events = append(h.events, "close") },
		Alert:    AlertFunc(func(msg string) { h.alerts = append(h.alerts, msg) }),
		StartDir: t.TempDir(),
	})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

// run executes cmd (and nested batches) and feeds every resulting message
// back into the model.
func (h *harness) run(cmd tea.Cmd) {
	for _, msg := range drain(cmd) {
		h.send(msg)
	}
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func memFile(name string) upload.File {
	return upload.FromBytes(name, "", []byte("data:"+name))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func paste(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

func TestDragOverThenLeaveKeepsSelection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	h.send(DropMsg{Files: []upload.File{memFile("a.png")}})

	for i := 0; i < 3; i++ {
		h.send(DragOverMsg{})
		require.True(t, h.m.dragging)
		h.send(DragLeaveMsg{})
		require.False(t, h.m.dragging)
	}
	f, ok := selection(h.m.state)
	require.True(t, ok)
	require.Equal(t, "a.png", f.Name)

	h2 := newHarness(t, &fakeUploader{})
	h2.send(DragOverMsg{})
	h2.send(DragLeaveMsg{})
	require.False(t, h2.m.dragging)
	require.Equal(t, idle{}, h2.m.state)
}

func TestDropSelectsFirstFile(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	h.send(DragOverMsg{})
	h.send(DropMsg{Files: []upload.File{memFile("one.png"), memFile("two.png"), memFile("three.png")}})
	require.False(t, h.m.dragging)
	f, ok := selection(h.m.state)
	require.True(t, ok)
	require.Equal(t, "one.png", f.Name)

	// a later drop replaces, never merges
	h.send(DropMsg{Files: []upload.File{memFile("four.png")}})
	f, _ = selection(h.m.state)
	require.Equal(t, "four.png", f.Name)

	h.send(FileChosenMsg{Files: []upload.File{memFile("five.jpg"), memFile("six.jpg")}})
	f, _ = selection(h.m.state)
	require.Equal(t, "five.jpg", f.Name)
}

func TestEmptyDropKeepsSelection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	h.send(DropMsg{Files: []upload.File{memFile("a.png")}})
	h.send(DragOverMsg{})
	h.send(DropMsg{})
	require.False(t, h.m.dragging)
	f, _ := selection(h.m.state)
	require.Equal(t, "a.png", f.Name)
}

func TestSubmitWithoutFileIsInert(t *testing.T) {
	t.Parallel()

	fu := &fakeUploader{url: "https://x/img.png"}
	h := newHarness(t, fu)

	require.Nil(t, h.send(SubmitMsg{}))
	require.Nil(t, h.send(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Equal(t, 0, fu.callCount())
	require.Equal(t, idle{}, h.m.state)
	require.False(t, h.m.dragging)
	require.Empty(t, h.events)
	require.Empty(t, h.alerts)
}

func TestSuccessfulUploadCallsBackThenCloses(t *testing.T) {
	t.Parallel()

	gotT := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotT <- r.URL.Query().Get("t")
		_, _ = io.WriteString(w, `{"url":"https://x/img.png"}`)
	}))
	t.Cleanup(srv.Close)

	ts := time.UnixMilli(1712345678901)
	client := upload.NewClient(srv.URL, upload.WithClock(func() time.Time { return ts }))
	h := newHarness(t, client)
	h.send(DropMsg{Files: []upload.File{memFile("img.png")}})

	h.run(h.send(SubmitMsg{}))

	require.Equal(t, "1712345678901", <-gotT)
	require.Equal(t, []string{"upload:https://x/img.png?t=1712345678901", "close"}, h.events)
	require.Empty(t, h.alerts)
	require.False(t, isUploading(h.m.state))
}

func TestServerErrorAlertsAndKeepsSelection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = io.WriteString(w, `{"error":"too large"}`)
	}))
	t.Cleanup(srv.Close)

	h := newHarness(t, upload.NewClient(srv.URL))
	h.send(DropMsg{Files: []upload.File{memFile("big.png")}})
	h.run(h.send(SubmitMsg{}))

	require.Len(t, h.alerts, 1)
	require.Contains(t, h.alerts[0], "too large")
	require.Empty(t, h.events)
	require.False(t, isUploading(h.m.state))

	st, ok := h.m.state.(failed)
	require.True(t, ok)
	require.Equal(t, "big.png", st.file.Name)
	require.True(t, controlsFor(h.m.state).submit)
}

func TestMissingURLUsesUnknownError(t *testing.T) {
	t.Parallel()

	fu := &fakeUploader{err: &upload.ServerError{Message: upload.UnknownErrorMessage}}
	h := newHarness(t, fu)
	h.send(DropMsg{Files: []upload.File{memFile("a.png")}})
	h.run(h.send(SubmitMsg{}))

	require.Equal(t, []string{"Upload failed: Unknown error"}, h.alerts)
	require.Empty(t, h.events)
}

func TestTransportFailureAlertsAndAllowsRetry(t *testing.T) {
	t.Parallel()

	fu := &fakeUploader{err: errors.New("Failed to fetch")}
	h := newHarness(t, fu)
	h.send(DropMsg{Files: []upload.File{memFile("a.png")}})
	h.run(h.send(SubmitMsg{}))

	require.Len(t, h.alerts, 1)
	require.Contains(t, h.alerts[0], "Failed to fetch")
	require.Empty(t, h.events)
	require.False(t, isUploading(h.m.state))

	// manual retry sends the same file again
	fu.mu.Lock()
	fu.err = nil
	fu.url = "https://x/a.png?t=1"
	fu.mu.Unlock()
	h.run(h.send(SubmitMsg{}))

	require.Equal(t, 2, fu.callCount())
	require.Equal(t, "a.png", fu.calls[1].Name)
	require.Equal(t, []string{"upload:https://x/a.png?t=1", "close"}, h.events)
}

func TestControlsWhileUploading(t *testing.T) {
	t.Parallel()

	fu := &fakeUploader{err: errors.New("boom")}
	h := newHarness(t, fu)

	require.Equal(t, controls{fileInput: true, submit: false, close: true}, controlsFor(h.m.state))

	h.send(DropMsg{Files: []upload.File{memFile("a.png")}})
	require.Equal(t, controls{fileInput: true, submit: true, close: true}, controlsFor(h.m.state))

	cmd := h.send(SubmitMsg{})
	require.NotNil(t, cmd)
	require.True(t, isUploading(h.m.state))
	require.Equal(t, controls{}, controlsFor(h.m.state))
	require.Contains(t, h.m.View(), "Uploading...")

	// every control is inert until the request resolves
	require.Nil(t, h.send(SubmitMsg{}))
	require.Nil(t, h.send(keyRunes("o")))
	h.send(CloseMsg{})
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(DropMsg{Files: []upload.File{memFile("other.png")}})
	h.send(FileChosenMsg{Files: []upload.File{memFile("other.png")}})
	require.Empty(t, h.events)
	f, _ := selection(h.m.state)
	require.Equal(t, "a.png", f.Name)

	h.run(cmd)
	require.Equal(t, 1, fu.callCount())
	require.Equal(t, controls{fileInput: true, submit: true, close: true}, controlsFor(h.m.state))
}

func TestCloseWhenIdle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	h.send(CloseMsg{})
	require.Equal(t, []string{"close", "close"}, h.events)
}

func TestPasteOfPathIsADrop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "my photo.png")
	second := filepath.Join(dir, "b.png")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))

	h := newHarness(t, &fakeUploader{})
	h.send(DragOverMsg{})
	h.send(paste(strings.ReplaceAll(first, " ", `\ `) + " " + second))

	require.False(t, h.m.dragging)
	f, ok := selection(h.m.state)
	require.True(t, ok)
	require.Equal(t, "my photo.png", f.Name)
	require.Equal(t, "image/png", f.ContentType)
	require.Empty(t, h.alerts)
}

func TestPasteOfMissingPathAlerts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sunset.png"), []byte("x"), 0o644))

	h := newHarness(t, &fakeUploader{})
	h.send(paste(filepath.Join(dir, "sunest.png")))

	require.Equal(t, idle{}, h.m.state)
	require.Len(t, h.alerts, 1)
	require.Contains(t, h.alerts[0], "no such file")
	require.Contains(t, h.alerts[0], "sunset.png")
}

func TestBlankPasteIsIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	h.send(DropMsg{Files: []upload.File{memFile("keep.png")}})
	h.send(DragOverMsg{})
	h.send(paste("  \n\t "))

	require.False(t, h.m.dragging)
	require.Empty(t, h.alerts)
	f, ok := selection(h.m.state)
	require.True(t, ok)
	require.Equal(t, "keep.png", f.Name)
}

func TestPasteWhilePickingClosesDialog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dropped.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	h := newHarness(t, &fakeUploader{})
	h.send(keyRunes("o"))
	require.True(t, h.m.picking)

	h.send(paste(path))
	require.False(t, h.m.picking)
	view := h.m.View()
	require.Contains(t, view, "Selected file:")
	require.Contains(t, view, "dropped.png")
	require.NotContains(t, view, "enter select")
}

func TestPickerHeightFollowsTerminal(t *testing.T) {
	t.Parallel()

	require.Equal(t, 11, pickerHeight(24))
	require.Equal(t, minPickerHeight, pickerHeight(10))
	require.Equal(t, minPickerHeight, pickerHeight(0))
}

func TestOpenKeyStartsFileDialog(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	cmd := h.send(keyRunes("o"))
	require.NotNil(t, cmd)
	require.True(t, h.m.picking)

	h.send(keyRunes("q"))
	require.False(t, h.m.picking)
}

func TestViewReflectsDragAndSelection(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeUploader{})
	require.Contains(t, h.m.View(), "Drag and drop your image here")

	h.send(DragOverMsg{})
	require.Contains(t, h.m.View(), "Drop your image here")

	h.send(DropMsg{Files: []upload.File{memFile("cat.gif")}})
	view := h.m.View()
	require.Contains(t, view, "Selected file:")
	require.Contains(t, view, "cat.gif")
	require.Contains(t, view, "Upload")
}
