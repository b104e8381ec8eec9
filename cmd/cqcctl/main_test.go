package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/cqc/internal/config"
	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/response"
	"github.com/danmuck/cqc/internal/testutil/testlog"
)

func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildNewPrintsHex(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, nil, "build", "new", "--app-id", "10")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.TrimSpace(out) != "0201000a0000000400000100" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestBuildSendFromPeerConfig(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := config.WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	out, err := run(t, nil, "--config", path, "build", "send", "--qubit", "5", "--peer", "bob", "--notify")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "0201000a0000000c" + "00050503" + "000a7f0000012264"
	if strings.TrimSpace(out) != want {
		t.Fatalf("got %q want %q", strings.TrimSpace(out), want)
	}

	parsed, err := run(t, nil, "parse", strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(parsed, "instruction=send") || !strings.Contains(parsed, "remote=10@127.0.0.1:8804") {
		t.Fatalf("unexpected parse output: %q", parsed)
	}
}

func TestBuildRejectsInvalidRequests(t *testing.T) {
	testlog.Start(t)
	cases := [][]string{
		{"build", "cnot", "--qubit", "3", "--target", "3"},
		{"build", "measure"},
		{"build", "rot-x", "--qubit", "1"},
		{"build", "teleport"},
		{"build", "send", "--qubit", "1", "--peer", "nobody"},
		{"build", "rot-y", "--qubit", "1", "--step", "1", "--angle", "1"},
		{"get-time"},
		{"build", "send", "--qubit", "1", "--remote-port", "8804"},
		{"build", "epr", "--remote-app", "3"},
	}
	for _, args := range cases {
		if _, err := run(t, nil, args...); err == nil {
			t.Fatalf("%v: expected an error", args)
		}
	}
}

func TestBuildRejectsPeerWithAddressFlags(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := config.WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	for _, flag := range []string{"--remote-app", "--remote-port"} {
		_, err := run(t, nil, "--config", path, "build", "send", "--qubit", "1", "--peer", "bob", flag, "3")
		if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
			t.Fatalf("%s with --peer: expected rejection, got %v", flag, err)
		}
	}
	out, err := run(t, nil, "build", "send", "--qubit", "1", "--remote-node", "127.0.0.1", "--remote-port", "8804", "--remote-app", "3")
	if err != nil {
		t.Fatalf("explicit remote: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "00037f0000012264") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeEPROK(t *testing.T) {
	testlog.Start(t)
	raw := response.NewServer(10).EPROK(7, protocol.EntInfoHeader{IDAB: 5, Goodness: 9}).Bytes()
	out, err := run(t, nil, "decode", hex.EncodeToString(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{"type=epr-ok", "length=42", "qubit_id=7", "id_ab=5", "goodness=9"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestBuildRotationFromAngle(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, nil, "build", "rot-z", "--qubit", "2", "--angle", "3.141592653589793")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "00021002"+"80") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeHexAndStdin(t *testing.T) {
	testlog.Start(t)
	srv := response.NewServer(10)
	out, err := run(t, nil, "decode", "02 07 00 0a 00 00 00 13 00 03 01 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out, "type=measure-out") || !strings.Contains(out, "outcome=1") {
		t.Fatalf("unexpected output: %q", out)
	}

	errResp, _ := srv.Error(protocol.MsgErrTimeout)
	var stream []byte
	stream = append(stream, srv.NewOK(4).Bytes()...)
	stream = append(stream, errResp.Bytes()...)
	stream = append(stream, srv.InfTime(1234).Bytes()...)
	out, err = run(t, stream, "decode", "--stdin")
	if err != nil {
		t.Fatalf("decode stdin: %v", err)
	}
	for _, want := range []string{"type=new-ok", "error=error-timeout", "datetime=1234"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}

	if _, err := run(t, stream[:5], "decode", "--stdin"); err == nil {
		t.Fatalf("expected truncated stream error")
	}
	if _, err := run(t, nil, "decode", "zz"); err == nil {
		t.Fatalf("expected invalid hex error")
	}
}

func TestHelloRaw(t *testing.T) {
	testlog.Start(t)
	out, err := run(t, nil, "hello", "--raw", "--app-id", "7")
	if err != nil {
		t.Fatalf("hello: %v", err)
	}
	if !bytes.Equal([]byte(out), []byte{2, 0, 0, 7, 0, 0, 0, 0}) {
		t.Fatalf("unexpected raw hello: % x", out)
	}
}

func TestConfigInitAndCheck(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "session.toml")
	if _, err := run(t, nil, "config", "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	out, err := run(t, nil, "config", "check", path)
	if err != nil || !strings.Contains(out, "peers=2") {
		t.Fatalf("check: %q err=%v", out, err)
	}
	if err := os.WriteFile(path, []byte("[[peers]]\nname = \"x\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := run(t, nil, "config", "check", path); err == nil {
		t.Fatalf("expected validation error")
	}
}
