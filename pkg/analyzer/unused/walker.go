package unused

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/unused-files-seeker/pkg/analyzer"
	"github.com/panbanda/unused-files-seeker/pkg/source"
)

// WarnFunc receives a file that could not be read during the walk.
type WarnFunc func(FileError)

// Walker performs the breadth-first reachability traversal.
// A Walker is not safe for concurrent use; run one Walk at a time.
type Walker struct {
	src       source.ContentSource
	extractor Extractor
	resolver  *Resolver
	warn      WarnFunc
}

// NewWalker creates a walker reading through src.
func NewWalker(src source.ContentSource, extractor Extractor, resolver *Resolver, warn WarnFunc) *Walker {
	if warn == nil {
		warn = func(FileError) {}
	}
	return &Walker{
		src:       src,
		extractor: extractor,
		resolver:  resolver,
		warn:      warn,
	}
}

// Walk expands every file reachable from entry and annotates u in place.
// Files that cannot be read contribute no outgoing references and are returned as warnings.
// The only error is ctx.Err() when the context is cancelled mid-walk.
func (w *Walker) Walk(ctx context.Context, entry string, u *Universe) ([]FileError, error) {
	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.SetTotal(u.Len())
	}

	// Node ids are universe indices; an entry outside the universe takes the id after the last file.
	entryID, ok := u.index[entry]
	if !ok {
		entryID = uint32(u.Len())
	}
	pathOf := func(id uint32) string {
		if int(id) < len(u.files) {
			return u.files[id].Path
		}
		return entry
	}

	expanded := roaring.New()
	queued := roaring.New()

	queue := make([]uint32, 1, u.Len()+1)
	queue[0] = entryID
	queued.Add(entryID)

	var warnings []FileError
	for head := 0; head < len(queue); head++ {
		if err := ctx.Err(); err != nil {
			return warnings, err
		}

		current := queue[head]
		if !expanded.CheckedAdd(current) {
			continue
		}

		path := pathOf(current)
		if int(current) < len(u.files) {
			u.files[current].Visited = true
		}
		if tracker != nil {
			tracker.Tick(path)
		}

		content, err := w.src.Read(path)
		if err != nil {
			fe := FileError{Path: path, Err: err}
			w.warn(fe)
			warnings = append(warnings, fe)
			continue
		}

		for _, ref := range w.extractor.Extract(string(content)) {
			resolved, ok := w.resolver.Resolve(ref, path)
			if !ok {
				continue
			}
			target, ok := u.index[resolved]
			if !ok {
				// Outside the scanned set: nothing to mark.
				continue
			}

			u.files[target].addReferrer(path)
			if !expanded.Contains(target) && queued.CheckedAdd(target) {
				queue = append(queue, target)
			}
		}
	}

	return warnings, nil
}
