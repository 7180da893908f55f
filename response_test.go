package modbus

import "testing"

func TestResponseAsError(t *testing.T) {
	if err := OK.AsError(); err != nil {
		t.Fatalf("OK.AsError() = %v, want nil", err)
	}
	if err := Processing.AsError(); err != nil {
		t.Fatalf("Processing.AsError() = %v, want nil", err)
	}
	err := IllegalDataAddress.AsError()
	if err == nil {
		t.Fatal("IllegalDataAddress.AsError() = nil, want an error")
	}
	ex, ok := err.(Exception)
	if !ok {
		t.Fatalf("AsError() returned %T, want Exception", err)
	}
	if ex.Code() != IllegalDataAddress {
		t.Fatalf("Code() = %v, want IllegalDataAddress", ex.Code())
	}
}

func TestResponseIsException(t *testing.T) {
	for _, r := range []Response{IllegalFunction, IllegalDataAddress, IllegalDataValue, SlaveDeviceFailure,
		Acknowledge, SlaveDeviceBusy, NegativeAcknowledge, MemoryParityError} {
		if !r.isException() {
			t.Errorf("%v.isException() = false, want true", r)
		}
	}
	for _, r := range []Response{OK, Processing, CmnErrNoResponse, RtuErrCrc, TcpErrServer} {
		if r.isException() {
			t.Errorf("%v.isException() = true, want false", r)
		}
	}
}

func TestResponseString(t *testing.T) {
	if got := Processing.String(); got != "PROCESSING" {
		t.Errorf("Processing.String() = %q", got)
	}
	if got := OK.String(); got != "OK" {
		t.Errorf("OK.String() = %q", got)
	}
	if got := IllegalFunction.String(); got == "" {
		t.Error("IllegalFunction.String() is empty")
	}
}
