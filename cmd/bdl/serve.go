package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caffeineduck/bdlbridge/bridge"
	"github.com/caffeineduck/bdlbridge/loader"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed index.html
var indexHTML []byte

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server with a browser editor page",
	Long: `Start an HTTP server hosting the editor page and its compile endpoint.

The compute module loads in the background; requests made before it is ready
report that it is not initialized.

Endpoints:
  GET    /          Editor page (source, stdin, output and error panes)
  POST   /compile   Compile and run {"source":"...","stdin":"..."}
  GET    /status    Compute module state
  GET    /health    Health check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

type compileRequest struct {
	Source string `json:"source"`
	Stdin  string `json:"stdin"`
}

type compileResponse struct {
	Output     string `json:"output"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type statusResponse struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

func runServe(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetInt("port")

	log, err := newLogger(cmd, "info")
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := newLoader(cmd, log)
	defer l.Close(context.Background())
	l.Start(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newServer(l, log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("bdl server listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer returns the HTTP handler for the editor page. Every compile
// request gets its own pair of sinks.
func newServer(module bridge.StateReader, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})

	mux.HandleFunc("/compile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		reqLog := log.With(zap.String("request_id", id))

		var req compileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, errs := new(bridge.Buffer), new(bridge.Buffer)
		b := bridge.New(module, out, errs, bridge.WithLogger(reqLog))

		// A run that has started finishes even if the client goes away.
		res := b.Run(context.WithoutCancel(r.Context()), bridge.Request{
			Source: req.Source,
			Stdin:  req.Stdin,
		})
		reqLog.Info("compile request",
			zap.Bool("ok", res.OK()),
			zap.Duration("duration", res.Duration))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(compileResponse{
			Output:     out.String(),
			Error:      errs.String(),
			DurationMs: res.Duration.Milliseconds(),
		})
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var resp statusResponse
		state := loader.State(loader.Unloaded{})
		if module != nil && module.State() != nil {
			state = module.State()
		}
		resp.State = string(state.Status())
		if f, ok := state.(loader.Failed); ok && f.Err != nil {
			resp.Error = f.Err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
