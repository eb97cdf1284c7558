package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/analytics-go"
)

const (
	EventLoadStarted  = "load_started"
	EventLoadFinished = "load_finished"
	EventLoadFailed   = "load_failed"
)

// SegmentWriteKey is injected at build time, events are dropped when empty.
var SegmentWriteKey string

// TrackEvent sends an anonymous usage event. It never fails the caller.
func TrackEvent(enabled bool, event string, properties map[string]interface{}) {
	if !enabled || SegmentWriteKey == "" {
		return
	}

	userId, err := getUserId()
	if err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to resolve telemetry id")
		return
	}

	client := analytics.New(SegmentWriteKey)
	defer client.Close()

	props := analytics.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}

	if err := client.Enqueue(analytics.Track{
		UserId:     userId,
		Event:      event,
		Properties: props,
		Context:    getContext(),
	}); err != nil {
		logger.Debug().Str("err", err.Error()).Msg("failed to enqueue telemetry event")
	}
}

func getContext() *analytics.Context {
	version := "local"
	if build, ok := debug.ReadBuildInfo(); ok && strings.TrimSpace(build.Main.Version) != "" {
		version = strings.TrimSpace(build.Main.Version)
	}

	timezone, _ := time.Now().Zone()
	locale := os.Getenv("LANG")

	return &analytics.Context{
		App: analytics.AppInfo{
			Name:    "sumo-dlt",
			Version: version,
		},
		Location: analytics.LocationInfo{},
		OS: analytics.OSInfo{
			Name: fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH),
		},
		Locale:   locale,
		Timezone: timezone,
	}
}

func getUserId() (string, error) {
	dltDir := filepath.Dir(DefaultHomePath)
	if _, err := os.Stat(dltDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dltDir, 0o755); err != nil {
			return "", err
		}
	}

	idFile := filepath.Join(dltDir, "id")
	if data, err := os.ReadFile(idFile); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	userId := uuid.New().String()
	if err := os.WriteFile(idFile, []byte(userId), 0o644); err != nil {
		return "", err
	}
	return userId, nil
}
