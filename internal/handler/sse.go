package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"voteguard/internal/lifecycle"
	"voteguard/pkg/errors"
	"voteguard/pkg/logger"
)

// streamCountdown serves a live countdown as Server-Sent Events until the election
// closes or the client disconnects. Each tick is a "tick" event; the stream ends with
// a "closed" event once the Closed phase has been sent.
func streamCountdown(w http.ResponseWriter, r *http.Request, watcher *lifecycle.Watcher, start, end time.Time, log *logger.Logger) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !stderrors.Is(err, http.ErrNotSupported) {
		respondError(w, r, log, errors.NewInternalError("Streaming not supported", err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	var last lifecycle.Tick
	err := watcher.Watch(r.Context(), start, end, func(tick lifecycle.Tick) error {
		last = tick
		return writeEvent(w, rc, "tick", tick)
	})

	switch {
	case err == nil:
		if last.Phase != "" {
			_ = writeEvent(w, rc, "closed", last)
		}
	case stderrors.Is(err, context.Canceled):
		log.Debug("Countdown stream closed by client")
	default:
		log.WithError(err).Info("Countdown stream ended")
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return rc.Flush()
}
