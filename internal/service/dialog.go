package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/booruapp/tagsearch-server/internal/dialog"
	"github.com/booruapp/tagsearch-server/internal/domain"
	domainerrors "github.com/booruapp/tagsearch-server/internal/errors"
	"github.com/booruapp/tagsearch-server/internal/id"
	"github.com/booruapp/tagsearch-server/internal/media/images"
	"github.com/booruapp/tagsearch-server/internal/query"
	"github.com/booruapp/tagsearch-server/internal/store"
)

// DefaultDialogTTL is used when no session TTL is configured.
const DefaultDialogTTL = 30 * time.Minute

// DialogService drives search dialog sessions.
// A session is opened from a tag string, edited through form updates and
// closed by exactly one of Accept, AcceptImage or Cancel.
type DialogService struct {
	store  *store.Store
	images *ImageService
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewDialogService creates a new dialog service.
func NewDialogService(store *store.Store, images *ImageService, ttl time.Duration, logger *slog.Logger) *DialogService {
	if ttl <= 0 {
		ttl = DefaultDialogTTL
	}
	return &DialogService{
		store:  store,
		images: images,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// FormUpdate contains form fields to change. Nil fields are left unchanged.
type FormUpdate struct {
	Tags        *string
	OrderIndex  *int
	RatingIndex *int
	StatusIndex *int
	Date        *string
}

// AcceptResult is the outcome of closing a dialog with OK.
type AcceptResult struct {
	Query string         `json:"query"`
	Image *images.Result `json:"image,omitempty"`
}

// Open starts a session pre-populated from tags.
func (s *DialogService) Open(ctx context.Context, tags string) (*domain.DialogSession, error) {
	sessionID, err := id.Generate(id.PrefixDialog)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate dialog id")
	}

	form := dialog.FromQuery(query.Decompose(tags))
	session := domain.NewDialogSession(sessionID, tags, form, s.ttl)

	if err := s.store.CreateDialog(ctx, session); err != nil {
		return nil, fmt.Errorf("create dialog: %w", fromStore(err))
	}

	s.logger.Debug("dialog opened",
		"id", session.ID,
		"tags", tags,
		"order_index", form.OrderIndex,
		"rating_index", form.RatingIndex,
		"status_index", form.StatusIndex,
	)

	return session, nil
}

// Get returns an open session.
func (s *DialogService) Get(ctx context.Context, sessionID string) (*domain.DialogSession, error) {
	if !id.Valid(sessionID, id.PrefixDialog) {
		return nil, dialogNotFound(sessionID)
	}

	session, err := s.store.GetDialog(ctx, sessionID)
	if errors.Is(err, store.ErrDialogNotFound) {
		return nil, dialogNotFound(sessionID)
	}
	if err != nil {
		return nil, fromStore(err)
	}
	return session, nil
}

// Calendar returns the date picker state for a session.
func (s *DialogService) Calendar(session *domain.DialogSession) dialog.Calendar {
	return dialog.NewCalendar(s.now(), session.Form.Date)
}

// Update applies a partial form update. Combo indices are range checked;
// the date is stored as typed.
func (s *DialogService) Update(ctx context.Context, sessionID string, update *FormUpdate) (*domain.DialogSession, error) {
	return s.mutate(ctx, sessionID, func(form *dialog.Form) error {
		if update.Tags != nil {
			form.Tags = *update.Tags
		}
		if update.OrderIndex != nil {
			form.OrderIndex = *update.OrderIndex
		}
		if update.RatingIndex != nil {
			form.RatingIndex = *update.RatingIndex
		}
		if update.StatusIndex != nil {
			form.StatusIndex = *update.StatusIndex
		}
		if update.Date != nil {
			form.Date = *update.Date
		}
		if err := form.Validate(); err != nil {
			return domainerrors.Validation(err.Error())
		}
		return nil
	})
}

// SelectDate records a calendar pick. Days outside the calendar range are clamped.
func (s *DialogService) SelectDate(ctx context.Context, sessionID string, day time.Time) (*domain.DialogSession, error) {
	return s.mutate(ctx, sessionID, func(form *dialog.Form) error {
		dialog.NewCalendar(s.now(), form.Date).Select(form, day)
		return nil
	})
}

// Accept closes the session and returns the generated query string.
// extraPrefix is prepended as is; accepting a closed session is NotFound.
func (s *DialogService) Accept(ctx context.Context, sessionID, extraPrefix string) (*AcceptResult, error) {
	session, err := s.take(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := &AcceptResult{Query: session.Form.Generate(extraPrefix)}
	s.logger.Info("dialog accepted", "id", sessionID, "query", result.Query)
	return result, nil
}

// AcceptImage hashes the image at path and accepts the session with the
// md5 prefix. A missing file accepts without a prefix.
func (s *DialogService) AcceptImage(ctx context.Context, sessionID, path string) (*AcceptResult, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	img, err := s.images.HashPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.acceptWithImage(ctx, sessionID, img)
}

// AcceptImageData is AcceptImage for uploaded bytes.
func (s *DialogService) AcceptImageData(ctx context.Context, sessionID string, data []byte) (*AcceptResult, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	img, err := s.images.HashUpload(ctx, data)
	if err != nil {
		return nil, err
	}
	return s.acceptWithImage(ctx, sessionID, img)
}

// Cancel closes the session without producing a query.
func (s *DialogService) Cancel(ctx context.Context, sessionID string) error {
	if !id.Valid(sessionID, id.PrefixDialog) {
		return dialogNotFound(sessionID)
	}

	err := s.store.DeleteDialog(ctx, sessionID)
	if errors.Is(err, store.ErrDialogNotFound) {
		return dialogNotFound(sessionID)
	}
	if err != nil {
		return fromStore(err)
	}

	s.logger.Debug("dialog cancelled", "id", sessionID)
	return nil
}

// OpenCount returns the number of open sessions.
func (s *DialogService) OpenCount(ctx context.Context) (int, error) {
	return s.store.CountDialogs(ctx)
}

func (s *DialogService) acceptWithImage(ctx context.Context, sessionID string, img *images.Result) (*AcceptResult, error) {
	session, err := s.take(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := &AcceptResult{Query: session.Form.Generate(img.Prefix)}
	if img.MD5 != "" {
		result.Image = img
	}

	s.logger.Info("dialog accepted with image",
		"id", sessionID,
		"md5", img.MD5,
		"query", result.Query,
	)
	return result, nil
}

// mutate loads a session, applies fn to its form and saves it with a fresh expiry.
func (s *DialogService) mutate(ctx context.Context, sessionID string, fn func(*dialog.Form) error) (*domain.DialogSession, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	form := session.Form
	if err := fn(&form); err != nil {
		return nil, err
	}

	session.Form = form
	session.Touch()
	session.ExpiresAt = session.UpdatedAt.Add(s.ttl)

	err = s.store.UpdateDialog(ctx, session)
	if errors.Is(err, store.ErrDialogNotFound) {
		return nil, dialogNotFound(sessionID)
	}
	if err != nil {
		return nil, fromStore(err)
	}
	return session, nil
}

func (s *DialogService) take(ctx context.Context, sessionID string) (*domain.DialogSession, error) {
	if !id.Valid(sessionID, id.PrefixDialog) {
		return nil, dialogNotFound(sessionID)
	}

	session, err := s.store.TakeDialog(ctx, sessionID)
	if errors.Is(err, store.ErrDialogNotFound) {
		return nil, dialogNotFound(sessionID)
	}
	if err != nil {
		return nil, fromStore(err)
	}
	return session, nil
}

func dialogNotFound(sessionID string) error {
	return domainerrors.NotFoundf("dialog %q not found", sessionID)
}
