// Package ftp hosts the transfer session server: a single-user FTP
// endpoint confined to one upload directory, with an upload-completion
// hook wired into the processing pipeline.
package ftp

import (
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	server "goftp.io/server/v2"
	"goftp.io/server/v2/driver/file"

	"alpr-gate/internal/config"
	"alpr-gate/internal/service"
)

type Server struct {
	cfg config.FTPConfig
	srv *server.Server
	log zerolog.Logger
}

// NewServer creates the upload root if absent and assembles the FTP
// server around it. Errors here are startup failures and fatal to the
// process.
func NewServer(cfg config.FTPConfig, processor *service.UploadProcessor, log zerolog.Logger) (*Server, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", cfg.Dir, err)
	}

	driver, err := file.NewDriver(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("create file driver for %s: %w", cfg.Dir, err)
	}

	srv, err := server.NewServer(&server.Options{
		Name:   "alpr-gate",
		Driver: driver,
		Auth: &server.SimpleAuth{
			Name:     cfg.User,
			Password: cfg.Password,
		},
		Perm:         server.NewSimplePerm("camera", "camera"),
		Port:         cfg.Port,
		PassivePorts: fmt.Sprintf("%d-%d", cfg.PasvMin, cfg.PasvMax),
		Logger:       &protocolLogger{log: log},
	})
	if err != nil {
		return nil, fmt.Errorf("create FTP server: %w", err)
	}

	srv.RegisterNotifer(&uploadNotifier{
		root:      cfg.Dir,
		processor: processor,
		log:       log,
	})

	return &Server{cfg: cfg, srv: srv, log: log}, nil
}

// ListenAndServe binds the control port and serves until Shutdown.
// Connections beyond the configured limits are refused at accept time.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("bind control port %d: %w", s.cfg.Port, err)
	}

	limited := newLimitListener(ln, s.cfg.MaxConns, s.cfg.MaxConnsPerIP, s.log)
	return s.srv.Serve(limited)
}

// Shutdown closes the listening socket and active control connections.
// In-flight upload processing is abandoned at process exit.
func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}
