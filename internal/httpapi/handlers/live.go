package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap/internal/common"
	"github.com/skillswap/skillswap/internal/live"
)

// StreamEvents is the long-lived SSE subscription. The client's disconnect is
// the only cancellation signal; missed events are not replayed, the durable
// stores are what a reconnecting client pulls.
func (h *Handler) StreamEvents(c *gin.Context) {
	uid, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	if _, err := h.Dir.GetUser(c.Request.Context(), uid); err != nil {
		common.FailErr(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // helpful if behind nginx
	c.Status(http.StatusOK)

	flusher, okFlush := c.Writer.(http.Flusher)
	if !okFlush {
		fmt.Fprintf(c.Writer, "event: error\ndata: flusher not supported\n\n")
		return
	}

	writeEvent := func(ev live.Event) {
		b, err := json.Marshal(ev)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"message\":\"json marshal failed\"}\n\n")
			flusher.Flush()
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\n", ev.Type)
		fmt.Fprintf(c.Writer, "data: %s\n\n", string(b))
		flusher.Flush()
	}

	ctx := c.Request.Context()
	heartbeat := time.Duration(h.Cfg.HeartbeatInterval) * time.Second
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}

	sess := h.Hub.Register(uid)
	h.markPresent(c, sess, heartbeat)
	defer func() {
		h.Hub.Unregister(sess)
		h.clearPresent(sess)
	}()

	// immediate acknowledgment so the client knows the channel is open
	writeEvent(live.Connected())
	h.Log.WithField("user_id", uid).Info("live events connected")

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case ev, open := <-sess.Events():
			if !open {
				// evicted: a newer connection for this user took over
				return
			}
			writeEvent(ev)

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": ping %d\n\n", time.Now().Unix())
			flusher.Flush()
			h.markPresent(c, sess, heartbeat)

		case <-ctx.Done():
			h.Log.WithField("user_id", uid).Info("live events disconnected")
			return
		}
	}
}

// markPresent refreshes the Redis presence key; presence is advisory, so
// failures only get logged.
func (h *Handler) markPresent(c *gin.Context, sess *live.Session, heartbeat time.Duration) {
	if h.Presence == nil {
		return
	}
	ttl := heartbeat * 2
	if err := h.Presence.SetPresent(c.Request.Context(), sess.UserID, sess.ID, ttl); err != nil {
		h.Log.WithError(err).WithField("user_id", sess.UserID).Warn("presence set failed")
	}
}

func (h *Handler) clearPresent(sess *live.Session) {
	if h.Presence == nil {
		return
	}
	// the request context is gone by now; give the cleanup its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Presence.ClearPresent(ctx, sess.UserID, sess.ID); err != nil {
		h.Log.WithError(err).WithField("user_id", sess.UserID).Warn("presence clear failed")
	}
}

// GetPresence answers "is this user online" from the local hub first and the
// shared Redis key as fallback.
func (h *Handler) GetPresence(c *gin.Context) {
	uid, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	if h.Hub.Connected(uid) {
		common.OK(c, gin.H{"online": true})
		return
	}
	if h.Presence != nil {
		online, err := h.Presence.IsPresent(c.Request.Context(), uid)
		if err != nil {
			h.Log.WithError(err).Warn("presence lookup failed")
		} else {
			common.OK(c, gin.H{"online": online})
			return
		}
	}
	common.OK(c, gin.H{"online": false})
}
