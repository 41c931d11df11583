package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"
)

var (
	// ErrAlreadyRunning indicates another instance already holds the lock.
	ErrAlreadyRunning = errors.New("instance already running")
	// ErrInstancePortBusy indicates the lock port is held by something that
	// does not answer as a running instance.
	ErrInstancePortBusy = errors.New("single instance port busy")
)

const (
	activateCommand = "activate"
	ackReply        = "ok"
	dialTimeout     = 2 * time.Second
)

// InstanceGuard holds the single-instance lock.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
// When another instance holds it, that instance is asked to activate and
// ErrAlreadyRunning is returned. ErrInstancePortBusy is returned when the
// holder does not acknowledge the request.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if notifyErr := notifyRunning(address); notifyErr != nil {
			return nil, fmt.Errorf("%w: %s: %v (%v)", ErrInstancePortBusy, address, err, notifyErr)
		}
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve accepts activation requests from later launches until ctx is done or
// the guard is released. onActivate runs on the accepting goroutine.
func (guard *InstanceGuard) Serve(ctx context.Context, onActivate func()) {
	go func() {
		<-ctx.Done()
		_ = guard.Release()
	}()

	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		if handleRequest(conn) && onActivate != nil {
			onActivate()
		}
	}
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

// handleRequest reads one command and acknowledges it. It reports whether the
// command asked for activation.
func handleRequest(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(dialTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != activateCommand {
		return false
	}
	_, _ = fmt.Fprintln(conn, ackReply)
	return true
}

func notifyRunning(address string) error {
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return fmt.Errorf("contact running instance: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(dialTimeout))
	if _, err := fmt.Fprintln(conn, activateCommand); err != nil {
		return fmt.Errorf("contact running instance: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read instance reply: %w", err)
	}
	if strings.TrimSpace(reply) != ackReply {
		return fmt.Errorf("unexpected instance reply %q", strings.TrimSpace(reply))
	}
	return nil
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
