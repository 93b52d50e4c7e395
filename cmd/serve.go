package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/engage-cli/internal/classify"
	"github.com/sells-group/engage-cli/internal/dataset"
	"github.com/sells-group/engage-cli/internal/pipeline"
	"github.com/sells-group/engage-cli/internal/query"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, st, err := initSession(ctx, false)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(sess, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func buildRouter(sess *pipeline.Session, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/activity", handleActivity(sess))
		r.Get("/types", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, sess.TypeOptions())
		})
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, sess.AccountOptions())
			})
			r.Get("/top", handleTopAccounts(sess))
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/timeline", handleTimeline(sess))
				r.Get("/firmographics", handleFirmographics(sess))
				r.Get("/contacts", handleContacts(sess))
			})
		})
	})

	return r
}

func handleActivity(sess *pipeline.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := query.Filters{
			Types:      q["type"],
			Accounts:   q["account"],
			NameSearch: q.Get("q"),
		}

		var err error
		if filters.Start, err = parseDateFlag(q.Get("start")); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if filters.End, err = parseDateFlag(q.Get("end")); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, sess.FilteredActivities(filters))
	}
}

func handleTopAccounts(sess *pipeline.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := cfg.Dashboard.TopAccountsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, eris.Errorf("invalid limit %q", raw))
				return
			}
			limit = n
		}
		writeJSON(w, http.StatusOK, sess.TopAccounts(limit))
	}
}

func handleTimeline(sess *pipeline.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sess.Timeline(chi.URLParam(r, "name")))
	}
}

func handleFirmographics(sess *pipeline.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		firmo, err := sess.Firmographics(chi.URLParam(r, "name"))
		if err != nil {
			// Only this view degrades when the source lacks the join key;
			// the rest of the session keeps serving.
			if eris.Is(err, dataset.ErrFirmographicKeyMissing) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "unavailable"})
				return
			}
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if firmo == nil {
			firmo = []dataset.Firmographic{}
		}
		writeJSON(w, http.StatusOK, firmo)
	}
}

func handleContacts(sess *pipeline.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filters := query.Filters{NameSearch: q.Get("q")}

		if raw := q.Get("status"); raw != "" {
			status, ok := classify.ParseStatus(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, eris.Errorf("unknown status %q", raw))
				return
			}
			filters.Statuses = []classify.Status{status}
		}

		contacts, err := sess.Contacts(chi.URLParam(r, "name"), filters)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		writeJSON(w, http.StatusOK, contacts)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
