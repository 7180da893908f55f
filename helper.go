package modbus

import "encoding/binary"

// byteCount returns the number of bytes needed to hold bitCount bits,
// rounded up. Parenthesised deliberately: (bitCount+7)/8, never
// bitCount+7/8, which lets integer division run before the rounding
// addition and silently drops the "+7".
func byteCount(bitCount uint16) uint16 {
	return (bitCount + 7) / 8
}

// minUint16 returns the smaller of a and b.
func minUint16(a, b uint16) uint16 {
	if a < b {
		return a
	}
	return b
}

// bitsToBytes packs quantity bits from bits (one bool per bit, in offset
// order) into LSB-first packed bytes, as required by coil/discrete-input
// wire payloads.
func bitsToBytes(bits []bool) []byte {
	out := make([]byte, byteCount(uint16(len(bits))))
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// bytesToBits unpacks quantity LSB-first packed bits out of data.
func bytesToBits(quantity uint16, data []byte) []bool {
	out := make([]bool, quantity)
	for i := range out {
		byteIdx := i / 8
		if byteIdx >= len(data) {
			break
		}
		out[i] = data[byteIdx]&(1<<uint(i%8)) != 0
	}
	return out
}

// putRegisters writes values as big-endian 16-bit words into buf, which must
// be at least 2*len(values) bytes long.
func putRegisters(buf []byte, values []uint16) {
	for i, v := range values {
		binary.BigEndian.PutUint16(buf[i*2:], v)
	}
}

// getRegisters reads count big-endian 16-bit words out of buf.
func getRegisters(buf []byte, count int) []uint16 {
	out := make([]uint16, count)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(buf[i*2:])
	}
	return out
}
