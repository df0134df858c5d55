package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"net"
)

const (
	frameHeaderSize = 4
	readBufferSize  = 64 * 1024
)

// pipe carries discrete messages to and from a single peer.
type pipe interface {
	ReadMessage() ([]byte, error)
	WriteMessage([]byte) error
	Close() error
}

// streamPipe frames messages on a byte stream as a 4-byte big-endian length
// followed by the payload. The slice returned by ReadMessage is reused by the
// next call.
type streamPipe struct {
	conn net.Conn
	r    *bufio.Reader
	max  int
	whdr [frameHeaderSize]byte
	rhdr [frameHeaderSize]byte
	buf  []byte
}

func newStreamPipe(conn net.Conn, maxSize int) *streamPipe {
	return &streamPipe{
		conn: conn,
		r:    bufio.NewReaderSize(conn, readBufferSize),
		max:  maxSize,
	}
}

func (p *streamPipe) ReadMessage() ([]byte, error) {
	_, err := io.ReadFull(p.r, p.rhdr[:])
	if err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(p.rhdr[:])
	if p.max > 0 && uint64(size) > uint64(p.max) {
		return nil, fmt.Errorf("incoming frame of %d bytes: %w", size, ErrMessageTooLarge)
	}
	if cap(p.buf) < int(size) {
		p.buf = make([]byte, size)
	}
	p.buf = p.buf[:size]
	_, err = io.ReadFull(p.r, p.buf)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return p.buf, nil
}

func (p *streamPipe) WriteMessage(b []byte) error {
	if uint64(len(b)) > math.MaxUint32 || (p.max > 0 && len(b) > p.max) {
		return fmt.Errorf("outgoing frame of %d bytes: %w", len(b), ErrMessageTooLarge)
	}
	binary.BigEndian.PutUint32(p.whdr[:], uint32(len(b)))
	bufs := net.Buffers{p.whdr[:], b}
	_, err := bufs.WriteTo(p.conn)
	return err
}

func (p *streamPipe) Close() error {
	return p.conn.Close()
}
