package modbus

import "time"

// Options configure a master, slave or bridge endpoint before it's
// resolved into a Config. Grounded on the teacher's Options/Config split
// (same two-type shape, same Verify naming), extended with the RTU branch
// the teacher left as ToDo.
type Options struct {
	// Mode selects the framing: "tcp" or "rtu".
	Mode string
	// Kind selects the network layer for Mode "tcp". Only "tcp" is
	// implemented; "udp" is reserved for a future transport.
	Kind string
	// Endpoint is "host:port" for Mode "tcp", or a serial device path
	// (e.g. "/dev/ttyUSB0") for Mode "rtu".
	Endpoint string
	// UnitID is this endpoint's own slave address. Ignored for bridges,
	// which never filter on address.
	UnitID uint8
	// BaudRate configures the serial port for Mode "rtu". Defaults to
	// 19200 if zero.
	BaudRate int
	// DialTimeout/ReadTimeout bound a TCP master's connect and per-request
	// wait. Zero picks TCPOptions' defaults.
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Verify validates o, returning ErrInvalidParameter on any unrecognized or
// missing field.
func (o *Options) Verify() error {
	switch o.Mode {
	case "tcp":
		switch o.Kind {
		case "tcp":
		default:
			return ErrInvalidParameter
		}
	case "rtu":
	default:
		return ErrInvalidParameter
	}
	if o.Endpoint == "" {
		return ErrInvalidParameter
	}
	return nil
}
