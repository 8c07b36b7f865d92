package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/novarush/internal/app"
	"github.com/tomz197/novarush/internal/config"
	"github.com/tomz197/novarush/internal/draw"
	"github.com/tomz197/novarush/internal/loop/client"
	"github.com/tomz197/novarush/internal/loop/server"
)

func main() {
	logger := app.NewLogger(os.Stderr, "ssh", config.GetEnv("NOVARUSH_LOG_LEVEL", "info"))

	settings, err := app.LoadSettings()
	if err != nil {
		logger.Fatal("failed to load settings", "err", err)
	}
	logger = app.NewLogger(os.Stderr, "ssh", settings.LogLevel)

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config",
		"host", settings.SSHHost,
		"port", settings.SSHPort,
		"hostKey", settings.SSHHostKey,
		"scores", settings.ScoreFile,
		"workingDir", workingDir,
	)

	// The lobby is shared by all SSH sessions.
	store := app.OpenStore(settings, logger)
	lobby := server.NewServer(store, logger.WithPrefix("lobby"))
	lobbyCtx, cancelLobby := context.WithCancel(context.Background())
	go lobby.Run(lobbyCtx)
	logger.Info("lobby started")

	h := &sessionHandler{
		lobby:    lobby,
		settings: settings,
		logger:   logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSHHost, settings.SSHPort)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for steering input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if settings.SSHHostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSHHostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "host", settings.SSHHost, "port", settings.SSHPort)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect.
	lobby.Shutdown(15 * time.Second)
	cancelLobby()
	logger.Info("lobby stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

type sessionHandler struct {
	lobby    *server.Server
	settings config.Settings
	logger   *log.Logger
}

// middleware runs one game session per SSH connection.
func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.logger.Info("new game session",
			"user", sess.User(),
			"term", pty.Term,
			"width", pty.Window.Width,
			"height", pty.Window.Height,
		)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(h.lobby, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Pacing:       app.Pacing(h.settings),
			TickTime:     h.settings.Tick,
			Logger:       h.logger.WithPrefix("session"),
		})
		if err := c.Run(); err != nil {
			h.logger.Error("game error", "user", sess.User(), "err", err)
		}

		h.logger.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
