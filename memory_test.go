package modbus

import "testing"

func TestMemoryBitRoundTripUnaligned(t *testing.T) {
	m := NewMemory(64, 0, 0, 0)
	var slave uint8
	pattern := []bool{true, false, true, true, false, false, true, false, true, true}
	if r := m.ForceMultipleCoils(&slave, 3, uint16(len(pattern)), pattern, nil); r != OK {
		t.Fatalf("ForceMultipleCoils = %v", r)
	}
	got := make([]bool, len(pattern))
	var fact uint16
	if r := m.ReadCoilStatus(&slave, 3, uint16(len(pattern)), got, &fact); r != OK {
		t.Fatalf("ReadCoilStatus = %v", r)
	}
	if fact != uint16(len(pattern)) {
		t.Fatalf("fact = %d, want %d", fact, len(pattern))
	}
	for i := range pattern {
		if got[i] != pattern[i] {
			t.Errorf("bit %d = %v, want %v", i, got[i], pattern[i])
		}
	}
}

func TestMemoryReadClampsToCapacity(t *testing.T) {
	m := NewMemory(10, 0, 0, 0)
	var slave uint8
	bits := make([]bool, 20)
	var fact uint16
	if r := m.ReadCoilStatus(&slave, 5, 20, bits, &fact); r != OK {
		t.Fatalf("ReadCoilStatus = %v", r)
	}
	if fact != 5 {
		t.Errorf("fact = %d, want 5 (clamped to remaining capacity)", fact)
	}
}

func TestMemoryOffsetOutOfRangeIsIllegalDataAddress(t *testing.T) {
	m := NewMemory(10, 0, 0, 0)
	var slave uint8
	bits := make([]bool, 1)
	if r := m.ReadCoilStatus(&slave, 10, 1, bits, nil); r != IllegalDataAddress {
		t.Errorf("ReadCoilStatus at offset==capacity = %v, want IllegalDataAddress", r)
	}
}

func TestMemoryDisabledSpaceIsIllegalFunction(t *testing.T) {
	m := NewMemory(0, 0, 0, 10)
	var slave uint8
	bits := make([]bool, 1)
	if r := m.ReadCoilStatus(&slave, 0, 1, bits, nil); r != IllegalFunction {
		t.Errorf("ReadCoilStatus on zero-capacity space = %v, want IllegalFunction", r)
	}
}

func TestMemoryForceSingleOnDisabledSpaceIsIllegalFunction(t *testing.T) {
	m := NewMemory(0, 0, 0, 0)
	var slave uint8
	if r := m.ForceSingleCoil(&slave, 0, true); r != IllegalFunction {
		t.Errorf("ForceSingleCoil on zero-capacity coils = %v, want IllegalFunction", r)
	}
	if r := m.ForceSingleRegister(&slave, 0, 1); r != IllegalFunction {
		t.Errorf("ForceSingleRegister on zero-capacity holdings = %v, want IllegalFunction", r)
	}
}

// With coils 0..15 set to alternating 1,0,1,0,..., copying 8 bits from coil
// offset 3 into a single input register must land as 0x00AA: bit 0 of the
// register is coil 3, so 0,1,0,1,0,1,0,1 packs LSB-first into 0xAA.
func TestMemoryCopyBitToRegister(t *testing.T) {
	m := NewMemory(64, 0, 8, 0)
	var slave uint8
	pattern := make([]bool, 16)
	for i := range pattern {
		pattern[i] = i%2 == 0
	}
	if r := m.ForceMultipleCoils(&slave, 0, 16, pattern, nil); r != OK {
		t.Fatalf("ForceMultipleCoils = %v", r)
	}
	n, r := m.Copy(Space0x, 3, 8, Space3x, 0)
	if r != OK {
		t.Fatalf("Copy = %v", r)
	}
	if n != 8 {
		t.Fatalf("Copy n = %d, want 8", n)
	}
	values := make([]uint16, 1)
	if r := m.ReadInputRegisters(&slave, 0, 1, values, nil); r != OK {
		t.Fatalf("ReadInputRegisters = %v", r)
	}
	if values[0] != 0x00AA {
		t.Errorf("copied register = %#04x, want 0x00AA", values[0])
	}
}

func TestMemoryCopyRegisterToRegisterOverlapSafe(t *testing.T) {
	m := NewMemory(0, 0, 0, 10)
	var slave uint8
	values := []uint16{1, 2, 3, 4, 5}
	if r := m.ForceMultipleRegisters(&slave, 0, 5, values, nil); r != OK {
		t.Fatalf("ForceMultipleRegisters = %v", r)
	}
	// overlapping shift-right-by-one within the same space
	if _, r := m.Copy(Space4x, 0, 4, Space4x, 1); r != OK {
		t.Fatalf("Copy = %v", r)
	}
	want := []uint16{1, 1, 2, 3, 4}
	got := make([]uint16, 5)
	if r := m.ReadHoldingRegisters(&slave, 0, 5, got, nil); r != OK {
		t.Fatalf("ReadHoldingRegisters = %v", r)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("register %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestForceSingleCoil(t *testing.T) {
	m := NewMemory(8, 0, 0, 0)
	var slave uint8
	if r := m.ForceSingleCoil(&slave, 2, true); r != OK {
		t.Fatalf("ForceSingleCoil = %v", r)
	}
	bits := make([]bool, 8)
	if r := m.ReadCoilStatus(&slave, 0, 8, bits, nil); r != OK {
		t.Fatalf("ReadCoilStatus = %v", r)
	}
	for i, want := range []bool{false, false, true, false, false, false, false, false} {
		if bits[i] != want {
			t.Errorf("bit %d = %v, want %v", i, bits[i], want)
		}
	}
}
