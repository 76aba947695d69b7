package ftp

import (
	"github.com/rs/zerolog"
)

// protocolLogger adapts the transfer library's logger to zerolog at
// debug level, so protocol chatter stays out of the operational log
// unless explicitly enabled.
type protocolLogger struct {
	log zerolog.Logger
}

func (p *protocolLogger) Print(sessionID string, message interface{}) {
	p.log.Debug().Str("session", sessionID).Msgf("%v", message)
}

func (p *protocolLogger) Printf(sessionID string, format string, v ...interface{}) {
	p.log.Debug().Str("session", sessionID).Msgf(format, v...)
}

func (p *protocolLogger) PrintCommand(sessionID string, command string, params string) {
	if command == "PASS" {
		params = "****"
	}
	p.log.Debug().Str("session", sessionID).Str("command", command).Str("params", params).Msg("ftp command")
}

func (p *protocolLogger) PrintResponse(sessionID string, code int, message string) {
	p.log.Debug().Str("session", sessionID).Int("code", code).Str("message", message).Msg("ftp response")
}
