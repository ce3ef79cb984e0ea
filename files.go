package formkit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/async"
	"github.com/dmitrymomot/formkit/pkg/file"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// ChooseFiles handles a file-choose event: the selection of the input is
// replaced by files, each validated on its own. Thumbnails of valid images
// are produced in the background; see WaitThumbnails. Choosing nothing
// clears the selection.
func (i *Instance) ChooseFiles(ctx context.Context, idOrName string, files ...file.File) (*file.Selection, error) {
	c, err := i.fileInput(idOrName)
	if err != nil {
		return nil, err
	}

	key := c.Key()
	sel := i.store.Select(key, files, i.files)

	var futures []*async.Future[bool]
	for _, e := range sel.Entries() {
		if !e.Valid() || !e.File.IsImage() {
			continue
		}
		futures = append(futures, async.Async(ctx, e, func(ctx context.Context, e *file.Entry) (bool, error) {
			url := e.File.DataURL()
			if err := ctx.Err(); err != nil {
				return false, err
			}
			// The entry may have been removed or replaced meanwhile.
			return i.store.SetThumbnail(key, e, url), nil
		}))
	}

	i.mu.Lock()
	i.thumbs = append(i.thumbs, futures...)
	i.mu.Unlock()

	i.log.Debug("files chosen",
		logger.Event("choose_files"),
		logger.Field(fieldName(c)),
		slog.Int("count", sel.Len()),
		slog.Int("rejected", sel.Len()-len(sel.ValidFiles())),
	)
	return sel, nil
}

// RemoveFile drops the file at index from the selection of the input. The
// remaining files are relabelled 0..n-1.
func (i *Instance) RemoveFile(idOrName string, index int) (file.File, error) {
	c, err := i.fileInput(idOrName)
	if err != nil {
		return file.File{}, err
	}
	removed, err := i.store.Remove(c.Key(), index)
	if err != nil {
		return file.File{}, err
	}
	i.log.Debug("file removed",
		logger.Event("remove_file"),
		logger.Field(fieldName(c)),
		slog.Int("index", index),
	)
	return removed, nil
}

// Selection returns the current selection of a file input, nil when
// nothing is chosen.
func (i *Instance) Selection(idOrName string) (*file.Selection, error) {
	c, err := i.fileInput(idOrName)
	if err != nil {
		return nil, err
	}
	return i.store.Get(c.Key()), nil
}

// WaitThumbnails blocks until every pending thumbnail has been produced or
// ctx is done.
func (i *Instance) WaitThumbnails(ctx context.Context) error {
	i.mu.Lock()
	pending := i.thumbs
	i.thumbs = nil
	i.mu.Unlock()

	_, err := async.WaitAllContext(ctx, pending...)
	if err != nil {
		i.mu.Lock()
		for _, f := range pending {
			if !f.IsComplete() {
				i.thumbs = append(i.thumbs, f)
			}
		}
		i.mu.Unlock()
	}
	return err
}

func (i *Instance) fileInput(idOrName string) (*form.Control, error) {
	c, err := i.control(idOrName)
	if err != nil {
		return nil, err
	}
	if c.Kind != form.KindFile {
		return nil, fmt.Errorf("%w: %q", ErrNotFileInput, idOrName)
	}
	return c, nil
}
