package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// LogMemoryStats reports the current heap usage, the streaming loader has to
// stay flat here regardless of the source size.
func LogMemoryStats(log zerolog.Logger, connection string) uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	log.Debug().
		Str("connection", connection).
		Str("alloc", fmt.Sprintf("%v MiB", bToMb(m.Alloc))).
		Str("total-alloc", fmt.Sprintf("%v MiB", bToMb(m.TotalAlloc))).
		Str("sys", fmt.Sprintf("%v MiB", bToMb(m.Sys))).
		Str("num-gc", fmt.Sprintf("%v", m.NumGC)).
		Msg("SYSINFO")

	PrometheusHeapAlloc.Set(float64(m.Alloc))

	return m.Alloc
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func DltLogger(moduleName string) zerolog.Logger {
	writer := io.MultiWriter(os.Stdout)
	customConsoleWriter := zerolog.ConsoleWriter{Out: writer}
	customConsoleWriter.FormatCaller = func(i interface{}) string {
		return "\x1b[36m[DLT]\x1b[0m"
	}

	logger := zerolog.New(customConsoleWriter).With().Str("module", moduleName).Timestamp().Logger()
	return logger
}
