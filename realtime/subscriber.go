// Package realtime consumes a user's comet channel: the push stream of new
// plurks and responses the server exposes alongside the polling API.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/blackmichael/go-plurk"
)

const reconnectDelay = 5 * time.Second

// Handler receives events from the comet channel. Calls are made from the
// subscriber's goroutine, one at a time.
type Handler interface {
	// HandlePlurk is called for each new plurk on the channel.
	HandlePlurk(ctx context.Context, p *plurk.Plurk)

	// HandleResponse is called for each new response, with the id of the
	// plurk it belongs to.
	HandleResponse(ctx context.Context, plurkID int64, r *plurk.Response)
}

// ChannelSource provides the comet channel bootstrap data. *plurk.Client
// implements it.
type ChannelSource interface {
	GetUserChannel(ctx context.Context) (*plurk.UserChannel, error)
}

// Subscriber connects to the authenticated user's comet channel and
// dispatches events to a Handler.
type Subscriber struct {
	client  ChannelSource
	handler Handler
	logger  *slog.Logger

	// offset is the channel cursor, carried across reconnects so no
	// events are replayed.
	offset int64
}

// NewSubscriber creates a subscriber for the given client's user channel.
// The client must already be logged in by the time Start is called.
func NewSubscriber(client ChannelSource, handler Handler, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Start connects to the comet channel and processes events until the context
// is cancelled. It automatically reconnects on transient errors, fetching a
// fresh channel bootstrap each time.
func (s *Subscriber) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.subscribe(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Error("comet channel error, reconnecting", "error", err)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectDelay):
					// backoff before reconnecting
				}
			}
		}
	}
}

func (s *Subscriber) subscribe(ctx context.Context) error {
	channel, err := s.client.GetUserChannel(ctx)
	if err != nil {
		return fmt.Errorf("get user channel: %w", err)
	}

	wsURL, err := channelURL(channel, s.offset)
	if err != nil {
		return fmt.Errorf("build channel url: %w", err)
	}
	s.logger.Info("connecting to comet channel", "url", wsURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial comet channel: %w", err)
	}
	defer conn.Close()

	s.logger.Info("connected to comet channel", "channel", channel.ChannelName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		msg, err := parseMessage(message)
		if err != nil {
			s.logger.Error("failed to parse channel frame", "error", err)
			continue
		}

		if msg.NewOffset > 0 {
			s.offset = msg.NewOffset
		}

		for _, entry := range msg.Data {
			switch {
			case entry.Plurk != nil:
				s.handler.HandlePlurk(ctx, entry.Plurk)
			case entry.Response != nil:
				s.handler.HandleResponse(ctx, entry.PlurkID, entry.Response)
			default:
				s.logger.Debug("ignoring channel entry", "type", entry.Type)
			}
		}
	}
}

// channelURL turns the comet bootstrap data into a websocket URL carrying
// the channel name and resume offset.
func channelURL(channel *plurk.UserChannel, offset int64) (string, error) {
	u, err := url.Parse(channel.CometServer)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}

	q := u.Query()
	q.Set("channel", channel.ChannelName)
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
