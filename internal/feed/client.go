package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"hati/internal/market"
)

const defaultReconnectWait = time.Second

// Client consumes a websocket depth stream and applies every update to the
// market. It is the sole writer; everything downstream of the market reads.
type Client struct {
	url           string
	symbols       []string
	market        *market.Market
	reconnectWait time.Duration
}

func New(url string, symbols []string, mkt *market.Market) *Client {
	return &Client{
		url:           url,
		symbols:       symbols,
		market:        mkt,
		reconnectWait: defaultReconnectWait,
	}
}

// Run connects and pumps depth frames until the context ends, reconnecting
// with a fixed backoff whenever the session drops.
func (c *Client) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		for {
			if err := c.session(ctx); err != nil {
				log.Error().Err(err).Str("url", c.url).Msg("feed session ended")
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.reconnectWait):
			}
		}
	})
	// The tomb is killed with the context's error on shutdown; that is a
	// clean stop, not a failure.
	if err := t.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial feed: %w", err)
	}
	defer func() {
		// The ctx watcher below closes the connection on shutdown.
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error().Err(err).Msg("unable to close feed connection")
		}
	}()

	if err := conn.WriteJSON(subscribeMessage{Op: "subscribe", Symbols: c.symbols}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Info().Str("url", c.url).Strs("symbols", c.symbols).Msg("feed connected")

	// Unblock the blocking read when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read feed: %w", err)
		}

		update, err := parseMessage(raw)
		if err != nil {
			log.Error().Err(err).Msg("dropping malformed depth frame")
			continue
		}

		if err := c.market.Apply(update.Symbol, update.Bids, update.Asks, update.Snapshot); err != nil {
			log.Warn().
				Err(err).
				Str("symbol", update.Symbol).
				Msg("dropping depth update")
		}
	}
}
