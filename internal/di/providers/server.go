package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/booruapp/tagsearch-server/internal/api"
	"github.com/booruapp/tagsearch-server/internal/config"
	"github.com/booruapp/tagsearch-server/internal/logger"
	"github.com/booruapp/tagsearch-server/internal/service"
)

// shutdownTimeout is the maximum time to wait for in-flight requests on shutdown.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Dialogs:     do.MustInvoke[*service.DialogService](i),
		Tags:        do.MustInvoke[*service.TagService](i),
		Preferences: do.MustInvoke[*service.PreferencesService](i),
		Images:      do.MustInvoke[*service.ImageService](i),
		Search:      indexHandle.SearchIndex,
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPM:   cfg.Search.RateLimitRPM,
		MaxUploadBytes: cfg.Search.MaxUploadBytes,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
