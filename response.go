package modbus

import "fmt"

// Response is the single integer result taxonomy shared by every
// register-access operation, transport and engine in this package.
// Negative is non-terminal, zero is success, positive is a terminal error.
type Response int16

const (
	// Processing means the transaction is still in flight; the caller
	// must re-invoke the same operation with identical arguments.
	Processing Response = -1
	// OK means the operation completed successfully.
	OK Response = 0

	// IllegalFunction - the device does not support the requested function.
	IllegalFunction Response = 1
	// IllegalDataAddress - the offset (plus count) is outside the device's capacity.
	IllegalDataAddress Response = 2
	// IllegalDataValue - a protocol-level value is out of range.
	IllegalDataValue Response = 3
	// SlaveDeviceFailure - an unrecoverable error occurred in the backend.
	SlaveDeviceFailure Response = 4
	// Acknowledge - request accepted, long-running; poll again later.
	Acknowledge Response = 5
	// SlaveDeviceBusy - the device is busy with another long-duration command.
	SlaveDeviceBusy Response = 6
	// NegativeAcknowledge - the device cannot perform the requested action.
	NegativeAcknowledge Response = 7
	// MemoryParityError - a parity error was detected in extended memory.
	MemoryParityError Response = 8

	// CmnErrNoResponse - no response was received before giving up.
	CmnErrNoResponse Response = 32
	// CmnErrNotCorrect - the response/request is structurally invalid.
	CmnErrNotCorrect Response = 33
	// CmnErrReadBuffOverflow - more bytes arrived than the read buffer holds.
	CmnErrReadBuffOverflow Response = 34
	// CmnErrWriteBuffOverflow - the payload to send exceeds the write buffer.
	CmnErrWriteBuffOverflow Response = 35

	// SerialErrWrite - the underlying serial write failed.
	SerialErrWrite Response = 64
	// SerialErrRead - the first-byte read timeout elapsed.
	SerialErrRead Response = 65
	// SerialErrOpen - the serial port could not be opened.
	SerialErrOpen Response = 66

	// AsciiErrOverflow, AsciiErrCrc, AsciiErrRead, AsciiErrWrite are reserved
	// for the unimplemented ASCII transport (see SPEC_FULL §9).
	AsciiErrOverflow Response = 72
	AsciiErrCrc      Response = 73
	AsciiErrRead      Response = 74
	AsciiErrWrite     Response = 75

	// RtuErrCrc - the RTU frame's CRC-16 did not match.
	RtuErrCrc Response = 80

	// TcpErrSend - the TCP write failed.
	TcpErrSend Response = 88
	// TcpErrRecv - the TCP response timed out or the read failed.
	TcpErrRecv Response = 89
	// TcpErrConnect - the outbound TCP connection could not be established.
	TcpErrConnect Response = 90
	// TcpErrClosedByPeer - the peer half-closed the connection.
	TcpErrClosedByPeer Response = 91

	// UnknownError - the exception byte in a response was 0.
	UnknownError Response = 127
	// TcpErrServer - the listening socket could not be bound.
	TcpErrServer Response = 256
)

// Exception represents a modbus exception code (1-8), returned whenever the
// function byte of a reply has bit 0x80 set. It is a superset of error so
// callers can use errors.Is / errors.As against the package-level Ex* values.
type Exception interface {
	error
	Code() Response
}

var (
	// ExIllegalFunction - Exception code 0x01.
	//
	// The function code received in the query is not an allowable action for
	// the server (slave). This may be because the function code is only
	// applicable to newer devices, or because the server is in the wrong
	// state to process a request of this type.
	ExIllegalFunction = newException(IllegalFunction)
	// ExIllegalDataAddress - Exception code 0x02.
	//
	// The combination of offset and count addresses at least one location
	// that does not exist in the server's register space.
	ExIllegalDataAddress = newException(IllegalDataAddress)
	// ExIllegalDataValue - Exception code 0x03.
	//
	// A value contained in the request is not allowable for the server. This
	// indicates malformed request structure, not an application-level range
	// violation on the register's content.
	ExIllegalDataValue = newException(IllegalDataValue)
	// ExSlaveDeviceFailure - Exception code 0x04.
	//
	// An unrecoverable error occurred while the server was attempting to
	// perform the requested action.
	ExSlaveDeviceFailure = newException(SlaveDeviceFailure)
	// ExAcknowledge - Exception code 0x05.
	ExAcknowledge = newException(Acknowledge)
	// ExSlaveDeviceBusy - Exception code 0x06.
	ExSlaveDeviceBusy = newException(SlaveDeviceBusy)
	// ExNegativeAcknowledge - Exception code 0x07.
	ExNegativeAcknowledge = newException(NegativeAcknowledge)
	// ExMemoryParityError - Exception code 0x08.
	ExMemoryParityError = newException(MemoryParityError)
)

func newException(code Response) Exception {
	return &exception{code: code}
}

var _ Exception = (*exception)(nil)

// exception is the internal type satisfying Exception.
type exception struct {
	code Response
}

// Is reports whether target is an exception carrying the same code, so
// errors.Is matches a value returned by AsError against the Ex* values.
func (ex *exception) Is(target error) bool {
	t, ok := target.(*exception)
	return ok && t.code == ex.code
}

// Code returns the modbus-defined exception or framing response code.
func (ex *exception) Code() Response {
	return ex.code
}

// Error returns a human readable description of the underlying code.
func (ex *exception) Error() string {
	prefix := "modbus: "
	switch ex.code {
	case IllegalFunction:
		return prefix + "illegal function"
	case IllegalDataAddress:
		return prefix + "illegal data address"
	case IllegalDataValue:
		return prefix + "illegal data value"
	case SlaveDeviceFailure:
		return prefix + "slave device failure"
	case Acknowledge:
		return prefix + "acknowledge"
	case SlaveDeviceBusy:
		return prefix + "slave device busy"
	case NegativeAcknowledge:
		return prefix + "negative acknowledge"
	case MemoryParityError:
		return prefix + "memory parity error"
	case CmnErrNoResponse:
		return prefix + "no response"
	case CmnErrNotCorrect:
		return prefix + "malformed frame"
	case CmnErrReadBuffOverflow:
		return prefix + "read buffer overflow"
	case CmnErrWriteBuffOverflow:
		return prefix + "write buffer overflow"
	case SerialErrWrite:
		return prefix + "serial write error"
	case SerialErrRead:
		return prefix + "serial read timeout"
	case SerialErrOpen:
		return prefix + "serial port open error"
	case RtuErrCrc:
		return prefix + "RTU CRC mismatch"
	case TcpErrSend:
		return prefix + "TCP send error"
	case TcpErrRecv:
		return prefix + "TCP receive timeout"
	case TcpErrConnect:
		return prefix + "TCP connect error"
	case TcpErrClosedByPeer:
		return prefix + "TCP connection closed by peer"
	case TcpErrServer:
		return prefix + "TCP server could not bind/listen"
	case UnknownError:
		return prefix + "unknown exception"
	}
	return prefix + fmt.Sprintf("response code %d undefined", ex.code)
}

// AsError converts a non-OK, non-Processing Response into an Exception.
// Callers compare r == modbus.OK / r == modbus.Processing directly for the
// two non-error cases; AsError is for the terminal-error remainder.
func (r Response) AsError() error {
	if r == OK || r == Processing {
		return nil
	}
	return newException(r)
}

// isException reports whether r is one of the eight wire-level Modbus
// exception codes, as opposed to a transport- or framing-level error that
// never reaches the requester as a PDU.
func (r Response) isException() bool {
	return r >= IllegalFunction && r <= MemoryParityError
}

// String implements fmt.Stringer for log-friendly formatting.
func (r Response) String() string {
	if r == Processing {
		return "PROCESSING"
	}
	if r == OK {
		return "OK"
	}
	return newException(r).Error()
}
