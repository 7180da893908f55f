// Package serialport binds a real TTY to the non-blocking byte-stream
// contract the RTU transport polls against.
package serialport

import (
	"io"
	"time"

	"go.bug.st/serial"
)

// Port adapts a go.bug.st/serial.Port to modbus.SerialStream: Write plus a
// non-blocking Available/ReadByte pair, fed by short-timeout reads instead
// of a dedicated reader goroutine.
type Port struct {
	port serial.Port
	buf  []byte
}

// Open opens name (e.g. "/dev/ttyUSB0") at baud with the 8N1 framing
// Modbus RTU assumes, and arms a short read timeout so Available never
// blocks for long.
func Open(name string, baud int) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(5 * time.Millisecond); err != nil {
		p.Close()
		return nil, err
	}
	return &Port{port: p}, nil
}

func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Available reports how many bytes are ready for ReadByte, pulling a
// fresh chunk off the port if the internal buffer is empty.
func (p *Port) Available() int {
	if len(p.buf) == 0 {
		chunk := make([]byte, 256)
		n, err := p.port.Read(chunk)
		if err != nil || n == 0 {
			return 0
		}
		p.buf = chunk[:n]
	}
	return len(p.buf)
}

func (p *Port) ReadByte() (byte, error) {
	if len(p.buf) == 0 && p.Available() == 0 {
		return 0, io.EOF
	}
	b := p.buf[0]
	p.buf = p.buf[1:]
	return b, nil
}

// Close releases the underlying port.
func (p *Port) Close() error {
	return p.port.Close()
}
