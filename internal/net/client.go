package net

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"

	"QPaint/internal/logging"
	"QPaint/internal/state"
)

// CustomURLScheme prefixes share links handed out by a host.
const CustomURLScheme = "qpaint://"

// ParseLink turns "qpaint://host:port" (or a bare "host:port") into the
// host's WebSocket URL.
func ParseLink(link string) (string, error) {
	address := strings.TrimPrefix(strings.TrimSpace(link), CustomURLScheme)
	address = strings.TrimSuffix(address, "/")
	if address == "" || strings.ContainsAny(address, "/ ") {
		return "", fmt.Errorf("invalid share link %q", link)
	}
	return "ws://" + address + LivePath, nil
}

// Join connects to a sharing host and applies every received operation to
// r, calling onChange whenever the visible drawing changed. It returns
// when the connection ends or ctx is cancelled.
func Join(ctx context.Context, link string, r *state.Replica, onChange func(), logger *slog.Logger) error {
	log := logging.Component(logger, "client")
	url, err := ParseLink(link)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer conn.Close()
	log.Info("connected to host", "url", url)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var op state.Op
		if err := conn.ReadJSON(&op); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read from host: %w", err)
		}
		if r.Apply(op) && onChange != nil {
			onChange()
		}
	}
}
