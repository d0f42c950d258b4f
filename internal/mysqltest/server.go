// Package mysqltest starts local endpoints for tests that need something
// listening where a MySQL server is expected.
package mysqltest

import (
	"net"
	"strconv"
	"testing"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/server"
	"github.com/dolthub/go-mysql-server/sql/information_schema"
)

const host = "localhost"

// StartServer runs an in-memory MySQL server holding an empty database.
// Any user and password are accepted.
func StartServer(t testing.TB, database string) (int, func()) {
	port := FreePort(t)

	engine := sqle.NewDefault(memory.NewMemoryDBProvider(
		memory.NewDatabase(database),
		information_schema.NewInformationSchemaDatabase(),
	))
	s, err := server.NewDefaultServer(server.Config{
		Protocol: "tcp",
		Address:  net.JoinHostPort(host, strconv.Itoa(port)),
	}, engine)
	if err != nil {
		t.Fatalf("failed to create in-memory server: %s", err)
	}

	go s.Start()

	teardown := func() {
		if err := s.Close(); err != nil {
			t.Fatalf("failed to close in-memory server: %s", err)
		}
	}

	return port, teardown
}

// StartHangUpServer accepts connections and closes them before the
// handshake, like a server refusing the session.
func StartHangUpServer(t testing.TB) (int, func()) {
	return startTCPServer(t, func(c net.Conn) {
		c.Close()
	})
}

// StartSilentServer accepts connections and never writes to them. They stay
// open until teardown.
func StartSilentServer(t testing.TB) (int, func()) {
	return startTCPServer(t, func(net.Conn) {})
}

func startTCPServer(t testing.TB, handle func(net.Conn)) (int, func()) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		t.Fatalf("failed to listen: %s", err)
	}

	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			conns = append(conns, c)
			handle(c)
		}
	}()

	teardown := func() {
		l.Close()
		<-done
		for _, c := range conns {
			c.Close()
		}
	}

	return l.Addr().(*net.TCPAddr).Port, teardown
}

// FreePort returns a port nothing is listening on.
func FreePort(t testing.TB) int {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		t.Fatalf("failed to find a free port: %s", err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}
