package attach

import (
	"context"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mikellez/lumen/lfs"
	"github.com/mikellez/lumen/repo"
)

// Workflow attaches files to repositories.
type Workflow struct {
	dirs         Directories
	writer       Writer
	committer    Committer
	connectivity Connectivity
	previews     PreviewCache
	now          func() time.Time
	logger       *slog.Logger
	sink         func(error)

	wg sync.WaitGroup
}

// New creates a workflow writing through writer into directories managed by
// dirs and committing through committer.
func New(dirs Directories, writer Writer, committer Committer, opts ...Option) *Workflow {
	w := &Workflow{
		dirs:      dirs,
		writer:    writer,
		committer: committer,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.previews == nil {
		w.previews = NewLRUPreviews(DefaultPreviewSize)
	}
	return w
}

// Attach writes upload to the uploads directory of the session repository
// and inserts a reference to it at the editor selection.
//
// Attach does nothing and returns nil, nil when offline, when the session
// has no repository or credentials, or when editor is nil. A failed write
// is returned and leaves the editor untouched. Staging and committing the
// file happens in the background; see Wait.
func (w *Workflow) Attach(ctx context.Context, upload Upload, session Session, editor Editor) (*Result, error) {
	if !w.online() || !session.ready() || editor == nil {
		w.logger.Debug("attach skipped", "file", upload.Name)
		return nil, nil
	}

	id := session.Repo
	if err := w.dirs.EnsureDirectory(strings.TrimSuffix(w.dirs.Path(id), "/") + UploadsDir); err != nil {
		return nil, err //nolint:wrapcheck // classified by the cache manager
	}

	name := path.Base(upload.Name)
	target := UploadsDir + "/" + strconv.FormatInt(w.now().UnixMilli(), 10) + path.Ext(name)

	if err := w.writer.WriteFile(ctx, id, target, upload.Content, session.Credentials); err != nil {
		return nil, err //nolint:wrapcheck // classified by the store
	}

	w.wg.Add(1)
	go w.commit(context.WithoutCancel(ctx), id, strings.TrimPrefix(target, "/"))

	mimeType := upload.Type
	if mimeType == "" {
		mimeType = lfs.MIMEType(name)
	}
	w.previews.Add(target, Preview{Name: name, Type: mimeType, Content: upload.Content})

	from, to := editor.Selection()
	if from > to {
		from, to = to, from
	}
	label := editor.Slice(from, to)
	replaced := label != ""
	if !replaced {
		label = name
	}

	markdown := Reference(label, target, mimeType)
	change, selection := place(from, to, markdown, replaced)
	editor.Dispatch(change, selection)
	editor.Focus()

	w.logger.Info("attached file", "repo", id.String(), "path", target, "size", len(upload.Content))
	return &Result{Path: target, Markdown: markdown, Change: change, Selection: selection}, nil
}

// commit stages and commits rel. Failures are reported, not returned.
func (w *Workflow) commit(ctx context.Context, id repo.Identity, rel string) {
	defer w.wg.Done()

	err := w.committer.Stage(ctx, id, rel)
	if err == nil {
		_, err = w.committer.Commit(ctx, id, "Update "+rel)
	}
	if err == nil {
		return
	}

	w.logger.Error("failed to commit attachment", "repo", id.String(), "path", rel, "error", err)
	if w.sink != nil {
		w.sink(err)
	}
}

// Wait blocks until all background commits have finished.
func (w *Workflow) Wait() {
	w.wg.Wait()
}

// Preview returns the preview recorded for an attached path.
func (w *Workflow) Preview(p string) (Preview, bool) {
	return w.previews.Get(p)
}

func (w *Workflow) online() bool {
	return w.connectivity == nil || w.connectivity.Online()
}
