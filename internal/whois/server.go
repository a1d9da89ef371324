package whois

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"lanreg/internal/registrar"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	maxQueryLen  = 256
)

// Server answers RFC 3912 WHOIS queries over TCP, one query per
// connection. Responses are cached briefly so repeat lookups of a hot
// name skip the database.
type Server struct {
	lookup *registrar.Whois
	cache  *cache.Cache

	mu       sync.Mutex
	listener net.Listener
}

func NewServer(lookup *registrar.Whois, cacheTTL time.Duration) *Server {
	return &Server{
		lookup: lookup,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	logrus.WithField("addr", addr).Info("WHOIS server listening")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handle(ctx, conn)
	}
}

// Addr reports the bound listener address, or "" before ListenAndServe.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	query, err := readQuery(conn)
	if err != nil {
		logrus.WithError(err).Debug("WHOIS read failed")
		return
	}

	response := s.respond(ctx, query)

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := io.WriteString(conn, response); err != nil {
		logrus.WithError(err).Debug("WHOIS write failed")
	}
}

func (s *Server) respond(ctx context.Context, query string) string {
	name := strings.ToLower(strings.TrimSpace(query))
	if cached, ok := s.cache.Get(name); ok {
		return cached.(string)
	}

	var response string
	resolved, err := s.lookup.Lookup(ctx, name)
	switch {
	case err == nil:
		response = registrar.FormatText(*resolved, time.Now())
	case registrar.IsNotFound(err) || registrar.IsValidation(err):
		response = registrar.FormatNotFound(name, time.Now())
	default:
		logrus.WithError(err).WithField("domain", name).Error("WHOIS lookup failed")
		return "% Query failed, try again later\r\n"
	}

	s.cache.Set(name, response, cache.DefaultExpiration)
	logrus.WithField("domain", name).Debug("WHOIS query served")
	return response
}

// readQuery reads one CRLF-terminated query line. Anything past the
// first line or maxQueryLen is ignored.
func readQuery(conn net.Conn) (string, error) {
	reader := bufio.NewReaderSize(conn, maxQueryLen)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
