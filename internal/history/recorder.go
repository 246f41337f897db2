package history

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jask/imgdrop/internal/upload"
)

// recorder logs every successful upload of the wrapped Uploader.
type recorder struct {
	next upload.Uploader
	repo *Repo
	log  logrus.FieldLogger
}

// Recording wraps next so successful uploads are written to repo. A failed
// write is logged and does not fail the upload.
func Recording(next upload.Uploader, repo *Repo, log logrus.FieldLogger) upload.Uploader {
	if repo == nil {
		return next
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &recorder{next: next, repo: repo, log: log}
}

func (r *recorder) Upload(ctx context.Context, f upload.File) (string, error) {
	url, err := r.next.Upload(ctx, f)
	if err != nil {
		return "", err
	}
	if _, rerr := r.repo.Record(ctx, f.Name, url); rerr != nil {
		r.log.WithError(rerr).WithField("url", url).Warn("record upload history")
	}
	return url, nil
}
