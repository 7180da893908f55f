package modbus

import (
	"net"

	"github.com/GoAethereal/cancel"
	"github.com/marchserh/modbus/serialport"
)

// Config is Options resolved with the runtime collaborators (clock,
// logger, port allocator) needed to actually build a transport. Grounded
// on the teacher's Config, which carries the same Options fields plus the
// factory methods (framer/connection/listen) — here split into
// MasterTransport/Listen returning this port's MasterTransport/
// SlaveTransport rather than the teacher's framer/connection pair.
type Config struct {
	Options
	Clock  Clock
	Logger Logger
	// Ports allocates local source ports for outbound TCP connections.
	// Nil lets the OS choose, as plain net.Dial does.
	Ports PortAllocator
}

func (cfg Config) openSerial() (SerialStream, error) {
	baud := cfg.BaudRate
	if baud == 0 {
		baud = 19200
	}
	return serialport.Open(cfg.Endpoint, baud)
}

// MasterTransport builds the MasterTransport described by cfg.
func (cfg Config) MasterTransport() (MasterTransport, error) {
	switch cfg.Mode {
	case "tcp":
		return NewTCPMasterTransport(cfg.Endpoint, TCPOptions{
			DialTimeout: cfg.DialTimeout,
			ReadTimeout: cfg.ReadTimeout,
			Ports:       cfg.Ports,
			Logger:      cfg.Logger,
		}), nil
	case "rtu":
		stream, err := cfg.openSerial()
		if err != nil {
			return nil, err
		}
		return NewRTUMasterTransport(stream, RTUOptions{Clock: cfg.Clock, Logger: cfg.Logger}), nil
	}
	return nil, ErrInvalidParameter
}

// Listen builds an accept function vending one SlaveTransport per inbound
// connection. For TCP that's one per accepted socket, closed when ctx is
// canceled (the teacher's listener-watchdog idiom); for RTU, which has no
// connection concept, it vends the single serial-backed transport once
// and then blocks until ctx is canceled.
func (cfg Config) Listen(ctx cancel.Context) (accept func() (SlaveTransport, error), err error) {
	switch cfg.Mode {
	case "tcp":
		l, err := net.Listen("tcp", cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		go func() {
			<-ctx.Done()
			l.Close()
		}()
		return func() (SlaveTransport, error) {
			conn, err := l.Accept()
			if err != nil {
				return nil, err
			}
			return NewTCPSlaveTransport(conn, TCPOptions{ReadTimeout: cfg.ReadTimeout, Logger: cfg.Logger}), nil
		}, nil

	case "rtu":
		stream, err := cfg.openSerial()
		if err != nil {
			return nil, err
		}
		t := NewRTUSlaveTransport(stream, RTUOptions{Clock: cfg.Clock, Logger: cfg.Logger})
		served := false
		return func() (SlaveTransport, error) {
			if served {
				<-ctx.Done()
				return nil, ErrInvalidParameter
			}
			served = true
			return t, nil
		}, nil
	}
	return nil, ErrInvalidParameter
}
