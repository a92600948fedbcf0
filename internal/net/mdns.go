package net

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"

	"QPaint/internal/logging"
)

const serviceType = "_qpaint._tcp"

// Board is a sharing host found on the local network.
type Board struct {
	Name string
	Addr string
}

// Link is the share link for b.
func (b Board) Link() string {
	return CustomURLScheme + b.Addr
}

// Advertise publishes a sharing host on port over mDNS. Shut the returned
// server down when sharing stops.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,        // instance name
		serviceType, // _qpaint._tcp
		"",          // domain, ".local" when empty
		"",          // hostname, OS hostname when empty
		port,
		nil, // IPs, auto-detected when nil
		[]string{"QPaint"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse looks for sharing hosts until timeout elapses or ctx ends. The
// query is always finished before Browse returns; cancelling ctx closes
// its sockets, and a ctx deadline shortens the timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []Board, 1)
	go func() {
		var boards []Board
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			boards = append(boards, Board{
				Name: e.Name,
				Addr: net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)),
			})
		}
		done <- boards
	}()

	log := logging.Component(nil, "mdns")
	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = queryTimeout(ctx, timeout)
	params.DisableIPv6 = true
	params.Logger = slog.NewLogLogger(log.Handler(), slog.LevelDebug)

	err := mdns.QueryContext(ctx, params)
	close(entries)
	boards := <-done
	if ctx.Err() != nil {
		return boards, ctx.Err()
	}
	if err != nil {
		return boards, fmt.Errorf("mdns query: %w", err)
	}
	log.Debug("browse finished", "found", len(boards))
	return boards, nil
}

// queryTimeout caps timeout at the time left before ctx's deadline.
func queryTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			return max(left, time.Millisecond)
		}
	}
	return timeout
}
