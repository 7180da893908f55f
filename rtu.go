package modbus

import (
	"io"
	"time"
)

// SerialStream is the non-blocking contract the RTU transport polls
// against. It mirrors Arduino's Stream (Available/read-one-byte) rather
// than io.Reader, so RTU framing can be driven by repeated, non-blocking
// poll calls instead of a blocking read loop running on its own goroutine.
type SerialStream interface {
	io.Writer
	Available() int
	ReadByte() (byte, error)
}

// NoTimeout disables a timeout in RTUOptions: the reader waits
// indefinitely for the next byte instead of giving up.
const NoTimeout time.Duration = -1

// RTUOptions configures an RTU transport. Zero values pick sensible
// defaults; pass NoTimeout explicitly to disable a wait.
type RTUOptions struct {
	// FirstByteTimeout bounds how long a master waits for a response to
	// begin arriving after it writes a request. Meaningless (and left at
	// NoTimeout) for a slave, which waits indefinitely for its next
	// request.
	FirstByteTimeout time.Duration
	// InterByteTimeout bounds the silence gap used to detect end of
	// frame, standing in for the RTU spec's 3.5-character-time gap.
	// Defaults to 20ms.
	InterByteTimeout time.Duration
	Clock            Clock
	Logger           Logger
}

func (o RTUOptions) resolve(defaultFirstByte time.Duration) RTUOptions {
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Logger == nil {
		o.Logger = NopLogger
	}
	if o.InterByteTimeout == 0 {
		o.InterByteTimeout = 20 * time.Millisecond
	}
	if o.FirstByteTimeout == 0 {
		o.FirstByteTimeout = defaultFirstByte
	}
	return o
}

const (
	rtuBufSize   = 260
	rtuHeaderLen = 2 // slave + function
)

type rtuReadState byte

const (
	rtuIdle rtuReadState = iota
	rtuWaitFirstByte
	rtuWaitInterByte
)

// rtuReader implements the byte-at-a-time frame accumulation shared by
// both the master's response reader and the slave's request reader: the
// inner logic is identical, only what happens with a completed frame
// (response parsing vs. request dispatch) differs between the two.
type rtuReader struct {
	stream           SerialStream
	clock            Clock
	firstByteTimeout time.Duration
	interByteTimeout time.Duration
	buf              [rtuBufSize]byte
	n                int
	state            rtuReadState
	deadline         time.Time
}

func (r *rtuReader) reset() {
	r.n = 0
	r.state = rtuIdle
}

// poll drains any bytes currently available on the stream and reports
// whether a full frame is now sitting in buf[:n] (ended by an
// inter-byte silence) or the first-byte wait has timed out.
func (r *rtuReader) poll() (complete bool, timedOut bool) {
	now := r.clock.Now()
	for r.stream.Available() > 0 {
		b, err := r.stream.ReadByte()
		if err != nil {
			break
		}
		if r.n < len(r.buf) {
			r.buf[r.n] = b
			r.n++
		}
		r.state = rtuWaitInterByte
		r.deadline = now.Add(r.interByteTimeout)
	}
	switch r.state {
	case rtuIdle:
		r.state = rtuWaitFirstByte
		if r.firstByteTimeout > 0 {
			r.deadline = now.Add(r.firstByteTimeout)
		}
		return false, false
	case rtuWaitFirstByte:
		if r.firstByteTimeout > 0 && now.After(r.deadline) {
			return false, true
		}
		return false, false
	case rtuWaitInterByte:
		if now.After(r.deadline) {
			return r.n >= 4, false
		}
		return false, false
	}
	return false, false
}

func decodeRTUFrame(frame []byte) (slave, function byte, payload []byte, r Response) {
	if len(frame) < 4 {
		return 0, 0, nil, CmnErrNotCorrect
	}
	body := frame[:len(frame)-2]
	crcWant := uint16(frame[len(frame)-2]) | uint16(frame[len(frame)-1])<<8
	if CRC16(body) != crcWant {
		return 0, 0, nil, RtuErrCrc
	}
	return body[0], body[1], body[2:], OK
}

// RTUMasterTransport implements MasterTransport over a serial link.
type RTUMasterTransport struct {
	stream SerialStream
	log    Logger
	reader rtuReader
	buf    [rtuBufSize]byte
	active bool
	slave  uint8
	fn     byte
	plen   int
}

// NewRTUMasterTransport builds an RTU master transport polling stream.
func NewRTUMasterTransport(stream SerialStream, opts RTUOptions) *RTUMasterTransport {
	opts = opts.resolve(5000 * time.Millisecond)
	return &RTUMasterTransport{
		stream: stream,
		log:    opts.Logger,
		reader: rtuReader{stream: stream, clock: opts.Clock, firstByteTimeout: opts.FirstByteTimeout, interByteTimeout: opts.InterByteTimeout},
	}
}

func (t *RTUMasterTransport) Window(n int) []byte {
	return t.buf[rtuHeaderLen : rtuHeaderLen+n]
}

func (t *RTUMasterTransport) Exec(slave uint8, function byte, payloadLen int) (uint8, byte, int, Response) {
	if !t.active || t.slave != slave || t.fn != function || t.plen != payloadLen {
		t.slave, t.fn, t.plen, t.active = slave, function, payloadLen, true
		t.buf[0] = slave
		t.buf[1] = function
		frameLen := rtuHeaderLen + payloadLen
		crc := CRC16(t.buf[:frameLen])
		t.buf[frameLen] = byte(crc)
		t.buf[frameLen+1] = byte(crc >> 8)
		if _, err := t.stream.Write(t.buf[:frameLen+2]); err != nil {
			t.active = false
			return 0, 0, 0, SerialErrWrite
		}
		t.log.Trace("rtu master write", "frame", FormatFrame(t.buf[:frameLen+2]))
		t.reader.reset()
		return 0, 0, 0, Processing
	}

	complete, timedOut := t.reader.poll()
	if timedOut {
		t.active = false
		return 0, 0, 0, SerialErrRead
	}
	if !complete {
		return 0, 0, 0, Processing
	}
	t.active = false
	n := t.reader.n
	respSlave, respFn, payload, r := decodeRTUFrame(t.reader.buf[:n])
	if r != OK {
		return 0, 0, 0, r
	}
	t.log.Trace("rtu master read", "frame", FormatFrame(t.reader.buf[:n]))
	copy(t.Window(len(payload)), payload)
	return respSlave, respFn, len(payload), OK
}

func (t *RTUMasterTransport) Reset() {
	t.active = false
	t.reader.reset()
}

// RTUSlaveTransport implements SlaveTransport over a serial link.
type RTUSlaveTransport struct {
	stream SerialStream
	log    Logger
	reader rtuReader
	buf    [rtuBufSize]byte
}

// NewRTUSlaveTransport builds an RTU slave transport polling stream.
func NewRTUSlaveTransport(stream SerialStream, opts RTUOptions) *RTUSlaveTransport {
	opts = opts.resolve(NoTimeout)
	return &RTUSlaveTransport{
		stream: stream,
		log:    opts.Logger,
		reader: rtuReader{stream: stream, clock: opts.Clock, firstByteTimeout: opts.FirstByteTimeout, interByteTimeout: opts.InterByteTimeout},
	}
}

func (t *RTUSlaveTransport) Window(n int) []byte {
	return t.buf[rtuHeaderLen : rtuHeaderLen+n]
}

func (t *RTUSlaveTransport) Begin() Response { return OK }

func (t *RTUSlaveTransport) Read() (slave, function byte, payloadLen int, r Response) {
	complete, _ := t.reader.poll()
	if !complete {
		return 0, 0, 0, Processing
	}
	n := t.reader.n
	traced := FormatFrame(t.reader.buf[:n])
	respSlave, fn, payload, r := decodeRTUFrame(t.reader.buf[:n])
	t.reader.reset()
	if r != OK {
		return 0, 0, 0, r
	}
	t.log.Trace("rtu slave read", "frame", traced)
	copy(t.Window(len(payload)), payload)
	return respSlave, fn, len(payload), OK
}

func (t *RTUSlaveTransport) Write(slave, function byte, payloadLen int) Response {
	t.buf[0] = slave
	t.buf[1] = function
	frameLen := rtuHeaderLen + payloadLen
	crc := CRC16(t.buf[:frameLen])
	t.buf[frameLen] = byte(crc)
	t.buf[frameLen+1] = byte(crc >> 8)
	if _, err := t.stream.Write(t.buf[:frameLen+2]); err != nil {
		return SerialErrWrite
	}
	t.log.Trace("rtu slave write", "frame", FormatFrame(t.buf[:frameLen+2]))
	return OK
}
