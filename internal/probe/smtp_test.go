package probe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver points every MX lookup at the local test server.
type fakeResolver struct {
	host string
	err  error
}

func (r *fakeResolver) LookupMX(context.Context, string) ([]*net.MX, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.host == "" {
		return nil, nil
	}
	return []*net.MX{{Host: r.host, Pref: 10}}, nil
}

// smtpServer is a minimal single-shot SMTP responder. rcptReply is the full
// reply line sent for every RCPT TO command.
type smtpServer struct {
	listener  net.Listener
	rcptReply string
}

func newSMTPServer(t *testing.T, rcptReply string) *smtpServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	srv := &smtpServer{listener: listener, rcptReply: rcptReply}
	go srv.serve()
	return srv
}

func (s *smtpServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *smtpServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *smtpServer) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	fmt.Fprintf(conn, "220 fake.test ESMTP\r\n")
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			fmt.Fprintf(conn, "250 fake.test\r\n")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			fmt.Fprintf(conn, "250 ok\r\n")
		case strings.HasPrefix(cmd, "RCPT TO"):
			fmt.Fprintf(conn, "%s\r\n", s.rcptReply)
		case strings.HasPrefix(cmd, "QUIT"):
			fmt.Fprintf(conn, "221 bye\r\n")
			return
		default:
			fmt.Fprintf(conn, "502 unimplemented\r\n")
		}
	}
}

func newTestProber(t *testing.T, srv *smtpServer) *SMTPProber {
	t.Helper()
	return NewSMTP(
		WithPort(srv.port()),
		WithResolver(&fakeResolver{host: "127.0.0.1"}),
		WithHelloName("probe.test"),
		WithFromEmail("verify@probe.test"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestSMTPProber_RecipientAccepted(t *testing.T) {
	srv := newSMTPServer(t, "250 ok")
	prober := newTestProber(t, srv)

	status, err := prober.Probe(context.Background(), "john.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusExists, status)
}

func TestSMTPProber_RecipientRejected(t *testing.T) {
	for _, code := range []int{550, 551, 553} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			srv := newSMTPServer(t, fmt.Sprintf("%d no such user", code))
			prober := newTestProber(t, srv)

			status, err := prober.Probe(context.Background(), "nobody@example.com")
			require.NoError(t, err)
			assert.Equal(t, StatusInvalid, status)
		})
	}
}

func TestSMTPProber_TransientRejectionIsInconclusive(t *testing.T) {
	srv := newSMTPServer(t, "451 try again later")
	prober := newTestProber(t, srv)

	status, err := prober.Probe(context.Background(), "maybe@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, status)
}

func TestSMTPProber_PolicyRejectionIsInconclusive(t *testing.T) {
	// Greylisting and reputation blocks reject with 5xx codes that say
	// nothing about the mailbox.
	srv := newSMTPServer(t, "554 blocked by policy")
	prober := newTestProber(t, srv)

	status, err := prober.Probe(context.Background(), "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, status)
}

func TestSMTPProber_MalformedAddress(t *testing.T) {
	prober := NewSMTP(WithResolver(&fakeResolver{host: "127.0.0.1"}))

	for _, address := range []string{"", "nodomain", "@example.com", "user@"} {
		t.Run("address="+address, func(t *testing.T) {
			status, err := prober.Probe(context.Background(), address)
			require.Error(t, err)
			assert.Equal(t, StatusUnknown, status)
		})
	}
}

func TestSMTPProber_MXLookupFailure(t *testing.T) {
	prober := NewSMTP(
		WithResolver(&fakeResolver{err: fmt.Errorf("no such host")}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	status, err := prober.Probe(context.Background(), "john@unresolvable.test")
	require.Error(t, err)
	assert.Equal(t, StatusUnknown, status)
}

func TestSMTPProber_NoMXRecords(t *testing.T) {
	prober := NewSMTP(WithResolver(&fakeResolver{}))

	status, err := prober.Probe(context.Background(), "john@empty.test")
	require.Error(t, err)
	assert.Equal(t, StatusUnknown, status)
}

func TestSMTPProber_DialFailure(t *testing.T) {
	// Grab a port and close it again so nothing is listening there.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	prober := NewSMTP(
		WithPort(port),
		WithResolver(&fakeResolver{host: "127.0.0.1"}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	status, err := prober.Probe(ctx, "john@example.com")
	require.Error(t, err)
	assert.Equal(t, StatusUnknown, status)
}
