package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/terra-shuttle/relayer/config"
)

// sampleEvery keeps one in N events when sampling is on.
const sampleEvery = 5

// Init builds the process logger from the relayer config. Every event
// carries the destination chain id.
func Init(cfg *config.Config) zerolog.Logger {
	return build(os.Stdout, cfg).
		With().
		Str("chain_id", cfg.ChainID).
		Logger()
}

func build(out io.Writer, cfg *config.Config) zerolog.Logger {
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log := zerolog.New(out).Level(zerolog.Level(cfg.LogLevel)).With().Timestamp().Logger()
	if cfg.LogSampler {
		return log.Sample(&zerolog.BasicSampler{N: sampleEvery})
	}
	return log
}
