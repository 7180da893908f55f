package modbus

// Master is the client-side register-access engine: it implements Device
// by encoding a request, driving the injected MasterTransport's Exec until
// it stops returning Processing, and decoding the response. Every method
// is safe to call repeatedly with the same arguments from a poll loop —
// Exec recognizes a repeated call as "still working the same request"
// rather than starting a new one.
type Master struct {
	t   MasterTransport
	log Logger
}

// NewMaster builds a Master driving t. A nil log falls back to NopLogger.
func NewMaster(t MasterTransport, log Logger) *Master {
	if log == nil {
		log = NopLogger
	}
	return &Master{t: t, log: log}
}

// exec drives one poll tick for function/payloadLen (already staged into
// Window by the caller), and unwraps the three outcomes a response can
// carry: still in flight, an exception reply, or a normal reply. On a
// normal reply slave is updated to the address that actually answered.
func (m *Master) exec(slave *uint8, function byte, payloadLen int) ([]byte, Response) {
	outSlave, outFn, outLen, r := m.t.Exec(*slave, function, payloadLen)
	if r != OK {
		return nil, r
	}
	if outFn&0x80 != 0 {
		w := m.t.Window(outLen)
		if outLen < 1 {
			return nil, CmnErrNotCorrect
		}
		if w[0] == 0 {
			return nil, UnknownError
		}
		return nil, Response(w[0])
	}
	*slave = outSlave
	return m.t.Window(outLen), OK
}

func (m *Master) readBits(function byte, slave *uint8, offset, count uint16, bits []bool, fact *uint16) Response {
	w := m.t.Window(4)
	w[0] = byte(offset >> 8)
	w[1] = byte(offset)
	w[2] = byte(count >> 8)
	w[3] = byte(count)

	resp, r := m.exec(slave, function, 4)
	if r != OK {
		return r
	}
	if len(resp) < 1 || len(resp) != int(resp[0])+1 {
		return CmnErrNotCorrect
	}
	byteLen := uint16(resp[0])
	actual := count
	if maxBits := byteLen * 8; maxBits < actual {
		actual = maxBits
	}
	copy(bits[:actual], bytesToBits(actual, resp[1:]))
	if fact != nil {
		*fact = actual
	}
	return OK
}

func (m *Master) readWords(function byte, slave *uint8, offset, count uint16, values []uint16, fact *uint16) Response {
	w := m.t.Window(4)
	w[0] = byte(offset >> 8)
	w[1] = byte(offset)
	w[2] = byte(count >> 8)
	w[3] = byte(count)

	resp, r := m.exec(slave, function, 4)
	if r != OK {
		return r
	}
	if len(resp) < 1 || len(resp) != int(resp[0])+1 || resp[0]%2 != 0 {
		return CmnErrNotCorrect
	}
	regCount := uint16(resp[0]) / 2
	if regCount > count {
		return CmnErrNotCorrect
	}
	copy(values[:regCount], getRegisters(resp[1:], int(regCount)))
	if fact != nil {
		*fact = regCount
	}
	return OK
}

// ReadCoilStatus implements Device.
func (m *Master) ReadCoilStatus(slave *uint8, offset, count uint16, bits []bool, fact *uint16) Response {
	return m.readBits(1, slave, offset, count, bits, fact)
}

// ReadInputStatus implements Device.
func (m *Master) ReadInputStatus(slave *uint8, offset, count uint16, bits []bool, fact *uint16) Response {
	return m.readBits(2, slave, offset, count, bits, fact)
}

// ReadHoldingRegisters implements Device.
func (m *Master) ReadHoldingRegisters(slave *uint8, offset, count uint16, values []uint16, fact *uint16) Response {
	return m.readWords(3, slave, offset, count, values, fact)
}

// ReadInputRegisters implements Device.
func (m *Master) ReadInputRegisters(slave *uint8, offset, count uint16, values []uint16, fact *uint16) Response {
	return m.readWords(4, slave, offset, count, values, fact)
}

// ForceSingleCoil implements Device.
func (m *Master) ForceSingleCoil(slave *uint8, offset uint16, value bool) Response {
	coilValue := uint16(0x0000)
	if value {
		coilValue = 0xFF00
	}
	w := m.t.Window(4)
	w[0] = byte(offset >> 8)
	w[1] = byte(offset)
	w[2] = byte(coilValue >> 8)
	w[3] = byte(coilValue)

	resp, r := m.exec(slave, 5, 4)
	if r != OK {
		return r
	}
	if len(resp) != 4 {
		return CmnErrNotCorrect
	}
	outOffset := uint16(resp[0])<<8 | uint16(resp[1])
	outValue := uint16(resp[2])<<8 | uint16(resp[3])
	if !(outOffset == offset && outValue == coilValue) {
		return CmnErrNotCorrect
	}
	return OK
}

// ForceSingleRegister implements Device.
//
// The echoed offset and value must both match, not "offset mismatches
// and value matches" — the reference source's inverted guard rejected
// valid responses and accepted a response carrying the wrong offset
// whenever its value happened to differ too.
func (m *Master) ForceSingleRegister(slave *uint8, offset uint16, value uint16) Response {
	w := m.t.Window(4)
	w[0] = byte(offset >> 8)
	w[1] = byte(offset)
	w[2] = byte(value >> 8)
	w[3] = byte(value)

	resp, r := m.exec(slave, 6, 4)
	if r != OK {
		return r
	}
	if len(resp) != 4 {
		return CmnErrNotCorrect
	}
	outOffset := uint16(resp[0])<<8 | uint16(resp[1])
	outValue := uint16(resp[2])<<8 | uint16(resp[3])
	if !(outOffset == offset && outValue == value) {
		return CmnErrNotCorrect
	}
	return OK
}

// ForceMultipleCoils implements Device.
func (m *Master) ForceMultipleCoils(slave *uint8, offset, count uint16, bits []bool, fact *uint16) Response {
	packed := bitsToBytes(bits[:count])
	n := 5 + len(packed)
	w := m.t.Window(n)
	w[0] = byte(offset >> 8)
	w[1] = byte(offset)
	w[2] = byte(count >> 8)
	w[3] = byte(count)
	w[4] = byte(len(packed))
	copy(w[5:], packed)

	resp, r := m.exec(slave, 15, n)
	if r != OK {
		return r
	}
	if len(resp) != 4 {
		return CmnErrNotCorrect
	}
	outOffset := uint16(resp[0])<<8 | uint16(resp[1])
	outCount := uint16(resp[2])<<8 | uint16(resp[3])
	if !(outOffset == offset && outCount == count) {
		return CmnErrNotCorrect
	}
	if fact != nil {
		*fact = count
	}
	return OK
}

// ForceMultipleRegisters implements Device.
func (m *Master) ForceMultipleRegisters(slave *uint8, offset, count uint16, values []uint16, fact *uint16) Response {
	n := 5 + int(count)*2
	w := m.t.Window(n)
	w[0] = byte(offset >> 8)
	w[1] = byte(offset)
	w[2] = byte(count >> 8)
	w[3] = byte(count)
	w[4] = byte(count * 2)
	putRegisters(w[5:], values[:count])

	resp, r := m.exec(slave, 16, n)
	if r != OK {
		return r
	}
	if len(resp) != 4 {
		return CmnErrNotCorrect
	}
	outOffset := uint16(resp[0])<<8 | uint16(resp[1])
	outCount := uint16(resp[2])<<8 | uint16(resp[3])
	if !(outOffset == offset && outCount == count) {
		return CmnErrNotCorrect
	}
	if fact != nil {
		*fact = count
	}
	return OK
}
