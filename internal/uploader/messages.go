package uploader

import "github.com/jask/imgdrop/internal/upload"

// DragOverMsg reports a file being dragged over the drop target.
type DragOverMsg struct{}

// DragLeaveMsg reports the drag leaving the drop target without a drop.
type DragLeaveMsg struct{}

// DropMsg delivers a drop payload. Only the first file is used.
type DropMsg struct {
	Files []upload.File
}

// FileChosenMsg delivers the file dialog's choice. Only the first file is used.
type FileChosenMsg struct {
	Files []upload.File
}

// SubmitMsg presses the upload control.
type SubmitMsg struct{}

// CloseMsg presses the close control.
type CloseMsg struct{}

type uploadDoneMsg struct {
	url string
	err error
}
