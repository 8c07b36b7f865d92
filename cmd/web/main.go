package main

import (
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/tomz197/novarush/internal/app"
	"github.com/tomz197/novarush/internal/config"
	"github.com/tomz197/novarush/internal/score"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Funcs(template.FuncMap{
	"rank": score.Rank,
}).Parse(htmlPage))

type pageData struct {
	SSHHost string
	SSHPort string
	Scores  []score.Entry
}

func main() {
	logger := app.NewLogger(os.Stderr, "web", config.GetEnv("NOVARUSH_LOG_LEVEL", "info"))

	settings, err := app.LoadSettings()
	if err != nil {
		logger.Fatal("failed to load settings", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	store := app.OpenStore(settings, logger)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{SSHHost: sshHost, SSHPort: settings.SSHPort, Scores: store.Load()}
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
