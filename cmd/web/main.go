package main

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tomz197/neoncatch/internal/config"
	"go.uber.org/zap"
)

//go:embed index.html
var htmlPage string

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	addr := net.JoinHostPort(cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(cfg.Web.DisplayHost, cfg.SSH.Port, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting web server", zap.String("addr", "http://"+addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("web server failed", zap.Error(err))
	}
}

// newHandler serves the landing page with the SSH command filled in.
func newHandler(sshHost, sshPort string, logger *zap.Logger) http.Handler {
	page := renderPage(sshHost, sshPort)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := fmt.Fprint(w, page); err != nil {
			logger.Debug("write landing page", zap.Error(err))
		}
	})
	return mux
}

func renderPage(sshHost, sshPort string) string {
	command := "ssh " + sshHost
	if sshPort != "" && sshPort != "22" {
		command = fmt.Sprintf("ssh -p %s %s", sshPort, sshHost)
	}
	page := strings.ReplaceAll(htmlPage, "{{.SSHCommand}}", command)
	return strings.ReplaceAll(page, "{{.SSHHost}}", sshHost)
}
