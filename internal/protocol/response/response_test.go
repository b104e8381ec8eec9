package response

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/schema"
	"github.com/danmuck/cqc/internal/testutil/testlog"
)

func serverResponses(t *testing.T) []Response {
	t.Helper()
	s := NewServer(10)
	errResp, err := s.Error(protocol.MsgErrNoQubit)
	if err != nil {
		t.Fatalf("error response: %v", err)
	}
	return []Response{
		s.Hello(),
		s.Done(),
		s.NewOK(1),
		s.MeasOut(3, 1),
		s.Recv(protocol.NotifyHeader{QubitID: 4, RemoteAppID: 2, RemoteNode: 0x7F000001, RemotePort: 8803, Timestamp: 77}),
		s.Expire(5),
		s.EPROK(7, protocol.EntInfoHeader{NodeA: 1, PortA: 2, AppIDA: 3, NodeB: 4, PortB: 5, AppIDB: 6, IDAB: 7, Timestamp: 8, ToG: 9, Goodness: 10, DF: 1}),
		s.InfTime(math.MaxUint64),
		errResp,
	}
}

func TestDecodeServerResponsesRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, want := range serverResponses(t) {
		raw := want.Bytes()
		if len(raw) != want.Len() {
			t.Fatalf("%s: encoded %d bytes, Len()=%d", want.Type(), len(raw), want.Len())
		}
		if int(want.Header().Length) != len(raw)-protocol.ProtocolHeaderLen {
			t.Fatalf("%s: length=%d", want.Type(), want.Header().Length)
		}
		got, err := Decode(append(raw, 0xAB, 0xCD))
		if err != nil {
			t.Fatalf("%s: decode: %v", want.Type(), err)
		}
		if got != want {
			t.Fatalf("%s: round-trip mismatch:\n got=%+v\nwant=%+v", want.Type(), got, want)
		}
	}
}

func TestDecodeMeasOutAccessors(t *testing.T) {
	testlog.Start(t)
	raw := NewServer(10).MeasOut(3, 1).Bytes()
	resp, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, err := resp.Notify()
	if err != nil || n.QubitID != 3 || n.Outcome != 1 {
		t.Fatalf("notify=%+v err=%v", n, err)
	}
	if resp.IsError() {
		t.Fatalf("meas_out is not an error response")
	}

	_, err = resp.ErrorCode()
	if !errors.Is(err, protocol.ErrWrongPayload) {
		t.Fatalf("expected ErrWrongPayload, got %v", err)
	}
	var ae *AccessError
	if !errors.As(err, &ae) || ae.Want != schema.PayloadErrorCode || ae.Got != schema.PayloadNotify {
		t.Fatalf("unexpected access error: %+v", ae)
	}
	if _, _, err := resp.EntInfo(); !errors.Is(err, protocol.ErrWrongPayload) {
		t.Fatalf("expected ErrWrongPayload, got %v", err)
	}
}

func TestDecodeEPROKGoldenBytes(t *testing.T) {
	testlog.Start(t)
	raw := []byte{
		2, byte(protocol.MsgEPROK), 0, 10, 0, 0, 0, 42,
		0, 7, // qubit_id
		0x7F, 0, 0, 1, 0x22, 0x63, 0, 10, // node_a port_a app_id_a
		0x7F, 0, 0, 2, 0x22, 0x64, 0, 11, // node_b port_b app_id_b
		0, 0, 0, 5, // id_ab
		0, 0, 0, 0, 0, 0, 0x01, 0x00, // timestamp
		0, 0, 0, 0, 0, 0, 0x02, 0x00, // tog
		0, 9, // goodness
		0, 0, // df align
	}
	resp, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind() != schema.PayloadEntInfo || resp.Len() != len(raw) {
		t.Fatalf("kind=%s len=%d", resp.Kind(), resp.Len())
	}
	qubitID, ent, err := resp.EntInfo()
	if err != nil {
		t.Fatalf("ent info: %v", err)
	}
	want := protocol.EntInfoHeader{
		NodeA: 0x7F000001, PortA: 8803, AppIDA: 10,
		NodeB: 0x7F000002, PortB: 8804, AppIDB: 11,
		IDAB: 5, Timestamp: 256, ToG: 512, Goodness: 9,
	}
	if qubitID != 7 || ent != want {
		t.Fatalf("qubit=%d ent=%+v", qubitID, ent)
	}

	built := NewServer(10).EPROK(7, want).Bytes()
	if string(built) != string(raw) {
		t.Fatalf("encoded mismatch:\n got % x\nwant % x", built, raw)
	}

	short := append([]byte(nil), raw...)
	short[7] = 40
	if _, err := Decode(short[:48]); !errors.Is(err, protocol.ErrLengthMismatch) {
		t.Fatalf("40-byte epr_ok must be rejected, got %v", err)
	}
}

func TestHeaderReturnsCopy(t *testing.T) {
	testlog.Start(t)
	resp, err := Decode(NewServer(10).MeasOut(3, 1).Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	hdr := resp.Header()
	hdr.Type = protocol.MsgErrGeneral
	hdr.Length = 0
	if resp.IsError() || resp.Type() != protocol.MsgMeasOut || resp.Header().Length != 19 {
		t.Fatalf("header mutated through copy: %+v", resp.Header())
	}
	if _, err := resp.Notify(); err != nil {
		t.Fatalf("notify: %v", err)
	}
}

func TestDecodeErrorResponse(t *testing.T) {
	testlog.Start(t)
	raw := []byte{2, byte(protocol.MsgErrTimeout), 0, 10, 0, 0, 0, 0}
	resp, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	code, err := resp.ErrorCode()
	if err != nil || code != protocol.MsgErrTimeout {
		t.Fatalf("code=%s err=%v", code, err)
	}
	if _, err := resp.Notify(); !errors.Is(err, protocol.ErrWrongPayload) {
		t.Fatalf("notify on error response must fail, got %v", err)
	}
	if _, err := resp.TimeInfo(); !errors.Is(err, protocol.ErrWrongPayload) {
		t.Fatalf("time_info on error response must fail, got %v", err)
	}
}

func TestDecodeFailures(t *testing.T) {
	testlog.Start(t)
	newOK := NewServer(1).NewOK(2).Bytes()
	cases := []struct {
		name string
		raw  []byte
		want error
	}{
		{"three bytes", []byte{2, 0, 0}, protocol.ErrTruncated},
		{"unknown type", []byte{2, 30, 0, 1, 0, 0, 0, 0}, protocol.ErrUnrecognizedValue},
		{"bad version", []byte{1, byte(protocol.MsgDone), 0, 1, 0, 0, 0, 0}, protocol.ErrUnrecognizedValue},
		{"factory", []byte{2, byte(protocol.MsgFactory), 0, 1, 0, 0, 0, 0}, protocol.ErrUnsupportedResponse},
		{"command", []byte{2, byte(protocol.MsgCommand), 0, 1, 0, 0, 0, 4}, protocol.ErrUnsupportedResponse},
		{"mix", []byte{2, byte(protocol.MsgMix), 0, 1, 0, 0, 0, 0}, protocol.ErrUnsupportedResponse},
		{"done with body", []byte{2, byte(protocol.MsgDone), 0, 1, 0, 0, 0, 4, 0, 0, 0, 0}, protocol.ErrLengthMismatch},
		{"new_ok short length", []byte{2, byte(protocol.MsgNewOK), 0, 1, 0, 0, 0, 2, 0, 1}, protocol.ErrLengthMismatch},
		{"new_ok truncated", newOK[:len(newOK)-1], protocol.ErrTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.raw); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServerErrorRejectsNonErrorType(t *testing.T) {
	testlog.Start(t)
	if _, err := NewServer(1).Error(protocol.MsgDone); !errors.Is(err, protocol.ErrUnexpectedParameter) {
		t.Fatalf("expected ErrUnexpectedParameter, got %v", err)
	}
}
