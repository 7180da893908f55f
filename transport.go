package modbus

// MasterTransport is the capability a Master engine polls to drive one
// request/response round trip. It owns the frame buffer and, for
// connection-oriented transports, the connection lifecycle; RTU and TCP
// each satisfy it with very different framing but an identical shape, so
// the per-function-code request/response logic in Master never needs to
// know which one it's talking to.
//
// This single capability, injected into Master, replaces the reference
// source's virtual-inheritance split of IO-transport crossed with
// master-logic (SPEC_FULL §9).
type MasterTransport interface {
	// Window returns the payload region of the frame buffer, sized to
	// hold n bytes, starting immediately after the transport's header.
	Window(n int) []byte

	// Exec drives one poll tick of a master transaction. The first call
	// for a given transaction sends function/Window(payloadLen); every
	// call (including the first) may return Processing, in which case
	// the caller must re-invoke with identical arguments. On OK,
	// outSlave/outFunction/outLen describe the response now sitting in
	// Window; outFunction carries the exception bit (0x80) unmodified so
	// the caller can tell a normal reply from an exception reply.
	Exec(slave uint8, function byte, payloadLen int) (outSlave uint8, outFunction byte, outLen int, r Response)

	// Reset returns the transport to its initial state after a terminal
	// error or an abandoned transaction.
	Reset()
}

// SlaveTransport is the capability a Slave or Bridge engine polls to
// accept one request and send its reply. Grounded on the reference
// source's ModbusSlaveIO contract (begin/read/write).
type SlaveTransport interface {
	// Window returns the payload region of the frame buffer, sized to
	// hold n bytes.
	Window(n int) []byte

	// Begin prepares the transport to accept requests (e.g. opens a
	// listening socket). OK once ready; Processing while still setting up.
	Begin() Response

	// Read polls for an inbound frame. Processing while waiting, OK with
	// slave/function/payloadLen populated once a frame has arrived.
	Read() (slave, function byte, payloadLen int, r Response)

	// Write sends function/Window(payloadLen) as the reply to the most
	// recently read request.
	Write(slave, function byte, payloadLen int) Response
}
