package ftp

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	server "goftp.io/server/v2"

	"alpr-gate/internal/service"
)

// uploadNotifier bridges the transfer layer to the upload processor.
// AfterFilePut fires when a file is fully received and closed; the
// processor runs synchronously here, before the session's next command,
// so uploads on one session are processed strictly in order.
type uploadNotifier struct {
	server.NullNotifier
	root      string
	processor *service.UploadProcessor
	log       zerolog.Logger
}

func (n *uploadNotifier) AfterFilePut(ctx *server.Context, dstPath string, size int64, err error) {
	if err != nil {
		n.log.Warn().Err(err).Str("path", dstPath).Msg("upload finished with error, skipping processing")
		return
	}

	local := filepath.Join(n.root, filepath.FromSlash(dstPath))
	n.log.Debug().Str("path", local).Int64("size", size).Msg("upload complete")
	n.processor.Process(context.Background(), local)
}

func (n *uploadNotifier) AfterUserLogin(ctx *server.Context, userName, password string, passMatched bool, err error) {
	if err != nil || !passMatched {
		n.log.Warn().Str("user", userName).Msg("login rejected")
		return
	}
	n.log.Info().Str("user", userName).Msg("client logged in")
}
