package ftp

import (
	"net"
	"sync"

	"github.com/rs/zerolog"
)

// connLimits tracks concurrent connections against a total cap and a
// per-remote-host cap. A limit of zero or below means unlimited.
type connLimits struct {
	mu         sync.Mutex
	total      int
	perHost    map[string]int
	maxTotal   int
	maxPerHost int
}

func newConnLimits(maxTotal, maxPerHost int) *connLimits {
	return &connLimits{
		perHost:    make(map[string]int),
		maxTotal:   maxTotal,
		maxPerHost: maxPerHost,
	}
}

func (l *connLimits) acquire(host string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return false
	}
	if l.maxPerHost > 0 && l.perHost[host] >= l.maxPerHost {
		return false
	}
	l.total++
	l.perHost[host]++
	return true
}

func (l *connLimits) release(host string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total--
	l.perHost[host]--
	if l.perHost[host] <= 0 {
		delete(l.perHost, host)
	}
}

// limitListener refuses connections over the configured limits at
// accept time. Excess clients get an immediate close, not a queue slot.
type limitListener struct {
	net.Listener
	limits *connLimits
	log    zerolog.Logger
}

func newLimitListener(ln net.Listener, maxTotal, maxPerHost int, log zerolog.Logger) *limitListener {
	return &limitListener{
		Listener: ln,
		limits:   newConnLimits(maxTotal, maxPerHost),
		log:      log,
	}
}

func (l *limitListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}

		host := remoteHost(conn)
		if !l.limits.acquire(host) {
			l.log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("connection limit reached, refusing client")
			conn.Close()
			continue
		}

		release := func() { l.limits.release(host) }
		return &limitedConn{Conn: conn, release: release}, nil
	}
}

func remoteHost(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}

// limitedConn gives its slot back exactly once, no matter how many
// times Close is called.
type limitedConn struct {
	net.Conn
	once    sync.Once
	release func()
}

func (c *limitedConn) Close() error {
	c.once.Do(c.release)
	return c.Conn.Close()
}
