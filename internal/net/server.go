package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"hati/internal/market"
)

const (
	MAX_RECV_SIZE      = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = time.Minute
)

var ErrImproperConversion = errors.New("improper type conversion")

// ClientSession contains relevant information pertaining to an individual
// connected TCP session.
type ClientSession struct {
	id   string
	conn net.Conn
}

// Server answers book queries over TCP: one binary request per read, one
// report per response. It only ever reads the market; depth updates arrive
// through the feed, never through here.
type Server struct {
	address            string
	port               int
	market             *market.Market
	pool               WorkerPool
	cancel             context.CancelFunc
	clientSessions     map[string]*ClientSession
	clientSessionsLock sync.Mutex
}

func New(address string, port int, mkt *market.Market) *Server {
	return &Server{
		address:        address,
		port:           port,
		market:         mkt,
		pool:           NewWorkerPool(defaultNWorkers),
		clientSessions: make(map[string]*ClientSession),
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	s.cancel()
}

func (s *Server) Run(ctx context.Context) {
	defer s.Shutdown()

	// Setup a cancel on the context for future shutdown.
	ctx, s.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	// Start a tcp listener.
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		log.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error().Err(err).Msg("unable to close listener")
		}
	}()

	// Close the listener once the context ends so the blocking Accept
	// below unblocks.
	t.Go(func() error {
		<-ctx.Done()
		_ = listener.Close()
		return nil
	})

	// Start the worker pool.
	s.pool.Setup(t, s.handleConnection)

	log.Info().Str("address", listener.Addr().String()).Msg("query server running")

	// Start accepting connections.
	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("error accepting client")
				continue
			}

			session := s.addClientSession(conn)
			log.Info().
				Str("session", session.id).
				Str("address", conn.RemoteAddr().String()).
				Msg("new client added")

			// Pass over the session to be read from.
			s.pool.AddTask(session)
		}
	}
}

// handleConnection is a short-lived worker method which reads the next request
// off the connection, executes it against the market and writes the report
// back. The session is then re-queued for its next request. If the connection
// dies, the client session is cleaned up.
// Note, any error returned from here is fatal.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	session, ok := task.(*ClientSession)
	if !ok {
		return ErrImproperConversion
	}

	// Idle sessions are reaped by the read deadline.
	if err := session.conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		log.Error().
			Str("session", session.id).
			Err(err).
			Msg("failed setting deadline for connection")
		s.deleteClientSession(session)
		return nil
	}

	buffer := make([]byte, MAX_RECV_SIZE)
	select {
	case <-t.Dying():
		s.deleteClientSession(session)
		return nil
	default:
		n, err := session.conn.Read(buffer)
		if err != nil {
			// If a read from a client fails, it is likely that the client
			// has exited. Clean up the client session.
			log.Info().
				Err(err).
				Str("session", session.id).
				Msg("client session ended")
			s.deleteClientSession(session)
			return nil
		}

		report := s.respond(buffer[:n])
		if _, err := session.conn.Write(report.Serialize()); err != nil {
			log.Error().
				Err(err).
				Str("session", session.id).
				Msg("error writing report")
			s.deleteClientSession(session)
			return nil
		}

		// Push the session back to handle the next request.
		s.pool.AddTask(session)
	}
	return nil
}

// respond turns one raw request into its report. Malformed requests get an
// error report rather than a dropped connection.
func (s *Server) respond(raw []byte) Report {
	message, err := parseMessage(raw)
	if err != nil {
		return errorReport(err)
	}
	return handleMessage(s.market, message)
}

// addClientSession is an atomic map add
func (s *Server) addClientSession(conn net.Conn) *ClientSession {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	session := &ClientSession{
		id:   uuid.New().String(),
		conn: conn,
	}
	s.clientSessions[session.id] = session
	return session
}

// deleteClientSession is an atomic map remove, closing the connection.
func (s *Server) deleteClientSession(session *ClientSession) {
	s.clientSessionsLock.Lock()
	defer s.clientSessionsLock.Unlock()

	if err := session.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Error().Str("session", session.id).Err(err).Msg("unable to close connection")
	}
	delete(s.clientSessions, session.id)
}
