package uploader

import "github.com/jask/imgdrop/internal/upload"

// state is one of idle, fileSelected, uploading or failed. Uploading always
// carries the file being sent.
type state interface {
	isState()
}

type idle struct{}

type fileSelected struct {
	file upload.File
}

type uploading struct {
	file upload.File
}

// failed keeps the file so pressing upload again retries it.
type failed struct {
	file   upload.File
	reason string
}

func (idle) isState()         {}
func (fileSelected) isState() {}
func (uploading) isState()    {}
func (failed) isState()       {}

// selection returns the file an upload would send, if any.
func selection(s state) (upload.File, bool) {
	switch s := s.(type) {
	case fileSelected:
		return s.file, true
	case uploading:
		return s.file, true
	case failed:
		return s.file, true
	default:
		return upload.File{}, false
	}
}

func isUploading(s state) bool {
	_, ok := s.(uploading)
	return ok
}

// controls mirrors which inputs accept interaction.
type controls struct {
	fileInput bool
	submit    bool
	close     bool
}

func controlsFor(s state) controls {
	busy := isUploading(s)
	_, has := selection(s)
	return controls{
		fileInput: !busy,
		submit:    has && !busy,
		close:     !busy,
	}
}
