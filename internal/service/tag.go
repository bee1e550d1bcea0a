package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/booruapp/tagsearch-server/internal/domain"
	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/search"
	"github.com/booruapp/tagsearch-server/internal/store"
	"github.com/booruapp/tagsearch-server/internal/watcher"
)

// TagService manages the known tags offered for autocompletion.
// Tags come from the API (user) or from the dictionary file (dictionary).
type TagService struct {
	store  *store.Store
	index  *search.SearchIndex
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *store.Store, index *search.SearchIndex, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		index:  index,
		logger: logger,
	}
}

// Suggest completes the last word of text. limit <= 0 uses the default.
func (s *TagService) Suggest(ctx context.Context, text string, limit int) (*search.SuggestResult, error) {
	if limit > search.MaxSuggestLimit {
		return nil, domainerrors.Validationf("limit must not exceed %d", search.MaxSuggestLimit)
	}

	result, err := s.index.Suggest(ctx, search.LastWord(text), limit)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "suggest tags")
	}
	return result, nil
}

// Add stores user tags. Names are normalized; existing tags are kept as is.
func (s *TagService) Add(ctx context.Context, names ...string) ([]*domain.Tag, error) {
	tags, err := s.store.PutTags(ctx, names, domain.TagSourceUser)
	if errors.Is(err, store.ErrTagInvalid) {
		return nil, domainerrors.Validation("no valid tag names given")
	}
	if err != nil {
		return nil, fromStore(err)
	}
	return tags, nil
}

// Remove deletes a tag.
func (s *TagService) Remove(ctx context.Context, name string) error {
	err := s.store.DeleteTag(ctx, name)
	if errors.Is(err, store.ErrTagNotFound) {
		return domainerrors.NotFoundf("tag %q not found", name)
	}
	return fromStore(err)
}

// List returns one page of known tags in byte order.
func (s *TagService) List(ctx context.Context, params store.PageParams) (*store.Page[*domain.Tag], error) {
	page, err := s.store.ListTagsPage(ctx, params)
	if err != nil {
		return nil, fromStore(err)
	}
	return page, nil
}

// LoadDictionary makes the dictionary tags match the file at path.
// One tag per line; blank lines and lines starting with '#' are skipped.
// A missing file is an empty dictionary.
func (s *TagService) LoadDictionary(ctx context.Context, path string) (added, removed int, err error) {
	names, err := readDictionary(path)
	if err != nil {
		return 0, 0, err
	}

	added, removed, err = s.store.ReplaceDictionaryTags(ctx, names)
	if err != nil {
		return 0, 0, fmt.Errorf("replace dictionary tags: %w", fromStore(err))
	}

	s.logger.Info("tag dictionary loaded",
		"path", path,
		"entries", len(names),
		"added", added,
		"removed", removed,
	)
	return added, removed, nil
}

// WatchDictionary reloads the dictionary whenever the watcher reports a change
// to path. It blocks until ctx is done; the caller runs w.Start.
func (s *TagService) WatchDictionary(ctx context.Context, w *watcher.Watcher, path string) error {
	path = filepath.Clean(path)
	if err := w.Watch(path); err != nil {
		return fmt.Errorf("watch dictionary: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			s.logger.Warn("dictionary watcher error", "error", err)
		case event := <-w.Events():
			if filepath.Clean(event.Path) != path {
				continue
			}
			s.logger.Debug("dictionary changed", "path", event.Path, "event", event.Type.String())
			if _, _, err := s.LoadDictionary(ctx, path); err != nil {
				s.logger.Error("failed to reload tag dictionary", "path", path, "error", err)
			}
		}
	}
}

// EnsureIndexed rebuilds the search index from the store when their tag
// counts disagree, e.g. after the index directory was removed.
func (s *TagService) EnsureIndexed(ctx context.Context) (bool, error) {
	stored, err := s.store.CountTags(ctx)
	if err != nil {
		return false, fromStore(err)
	}
	indexed, err := s.index.DocumentCount()
	if err != nil {
		return false, fmt.Errorf("count indexed tags: %w", err)
	}
	if uint64(stored) == indexed {
		return false, nil
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return false, fromStore(err)
	}
	if err := s.index.Reindex(ctx, tags); err != nil {
		return false, fmt.Errorf("reindex tags: %w", err)
	}

	s.logger.Info("tag index rebuilt", "stored", stored, "previously_indexed", indexed)
	return true, nil
}

func readDictionary(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return names, nil
}
