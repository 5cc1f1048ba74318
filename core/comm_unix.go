//go:build linux || darwin

package core

import "syscall"

// FdComm wraps a raw, non-blocking socket file descriptor as an
// io.ReadWriter so the epoll/kqueue event loops in server/ can hand
// the same command-reading path used everywhere else a bare fd
// instead of a net.Conn (spec section 6's reply-writer collaborator
// needs only Read/Write).
type FdComm struct {
	Fd int
}

func (f FdComm) Write(b []byte) (int, error) {
	return syscall.Write(f.Fd, b)
}

func (f FdComm) Read(b []byte) (int, error) {
	return syscall.Read(f.Fd, b)
}
