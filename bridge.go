package modbus

// Bridge relays requests arriving on a SlaveTransport to an arbitrary
// downstream Device — typically a Master talking to a second transport,
// turning this process into a protocol gateway (e.g. TCP-in, RTU-out).
//
// It reuses the Slave engine verbatim except for one thing: it never
// filters on slave address. A bridge has no identity of its own to
// protect; every accepted request is forwarded downstream with whatever
// address it already carries, and the downstream Device's OK/error/
// Processing result is relayed back unchanged. Grounded on the reference
// source's ModbusSlaveBridge, whose STATE_PROCESS_DEVICE step returns
// Processing from the inner device call without its own state transition
// — here that same behavior falls out of Slave.Poll's sProcess case.
type Bridge struct {
	*Slave
}

// NewBridge builds a Bridge accepting requests over t and forwarding
// them to downstream.
func NewBridge(t SlaveTransport, downstream Device, log Logger) *Bridge {
	return &Bridge{Slave: newDispatcher(t, downstream, true, log)}
}
