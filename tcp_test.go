package modbus

import (
	"errors"
	"net"
	"testing"
	"time"
)

// TestTCPEndToEndReadHoldingRegisters drives a real TCPMasterTransport
// against a real TCPSlaveTransport over a loopback TCP socket (not the
// in-memory lbMaster/lbSlave fakes used elsewhere), exercising MBAP framing,
// transaction-id echo and the payload Window offset end to end.
func TestTCPEndToEndReadHoldingRegisters(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen = %v", err)
	}
	defer ln.Close()

	dev := NewMemory(0, 0, 0, 4)
	var zero uint8
	want := []uint16{11, 22, 33}
	if r := dev.ForceMultipleRegisters(&zero, 0, 3, want, nil); r != OK {
		t.Fatalf("seed ForceMultipleRegisters = %v", r)
	}

	done := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			done <- err
			return
		}
		st := NewTCPSlaveTransport(conn, TCPOptions{})
		slave := NewSlave(st, dev, 9, nil)
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if r := slave.Poll(); r != Processing {
				done <- nil
				return
			}
			time.Sleep(time.Millisecond)
		}
		done <- errors.New("slave poll timed out")
	}()

	mt := NewTCPMasterTransport(ln.Addr().String(), TCPOptions{})
	master := NewMaster(mt, nil)

	var target uint8 = 9
	got := make([]uint16, 3)
	var r Response
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		r = master.ReadHoldingRegisters(&target, 0, 3, got, nil)
		if r != Processing {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if r != OK {
		t.Fatalf("ReadHoldingRegisters over TCP = %v", r)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("register %d = %d, want %d", i, got[i], want[i])
		}
	}
	if target != 9 {
		t.Errorf("responding slave address = %d, want 9", target)
	}
	if err := <-done; err != nil {
		t.Fatalf("slave goroutine: %v", err)
	}
}
