package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/cqc/internal/observability"
	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/builder"
	"github.com/danmuck/cqc/internal/protocol/frame"
	"github.com/danmuck/cqc/internal/protocol/response"
	"github.com/danmuck/cqc/internal/protocol/schema"
	"github.com/spf13/cobra"
)

func parseHex(arg string) ([]byte, error) {
	cleaned := strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(strings.TrimSpace(arg))
	b, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// messages yields each message from the hex args, or from stdin as a raw
// byte stream when stdin is set.
func messages(cmd *cobra.Command, args []string, stdin bool, limits frame.Limits, fn func([]byte) error) error {
	if !stdin {
		if len(args) == 0 {
			return fmt.Errorf("expected a hex message or --stdin")
		}
		for _, arg := range args {
			b, err := parseHex(arg)
			if err != nil {
				return err
			}
			if err := fn(b); err != nil {
				return err
			}
		}
		return nil
	}

	in := cmd.InOrStdin()
	for {
		msg, err := frame.ReadMessage(in, limits)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
}

func decodeCmd(opts *rootOptions) *cobra.Command {
	var stdin bool
	cmd := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode CQC responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return messages(cmd, args, stdin, opts.limits(), func(b []byte) error {
				resp, err := response.Decode(b)
				if err != nil {
					observability.RecordError("decode", err)
					return err
				}
				return describeResponse(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read raw messages from stdin")
	return cmd
}

func parseCmd(opts *rootOptions) *cobra.Command {
	var stdin bool
	cmd := &cobra.Command{
		Use:   "parse [hex...]",
		Short: "Decode CQC requests as a node would",
		RunE: func(cmd *cobra.Command, args []string) error {
			return messages(cmd, args, stdin, opts.limits(), func(b []byte) error {
				req, err := builder.ParseRequest(b)
				if err != nil {
					observability.RecordError("parse", err)
					return err
				}
				return describeRequest(cmd.OutOrStdout(), req)
			})
		},
	}
	cmd.Flags().BoolVar(&stdin, "stdin", false, "read raw messages from stdin")
	return cmd
}

func describeHeader(w io.Writer, h protocol.ProtocolHeader) {
	fmt.Fprintf(w, "type=%s app_id=%d version=%d length=%d\n", h.Type, h.AppID, h.Version, h.Length)
}

func describeResponse(w io.Writer, resp response.Response) error {
	describeHeader(w, resp.Header())
	switch resp.Kind() {
	case schema.PayloadNotify:
		n, err := resp.Notify()
		if err != nil {
			return err
		}
		remote := protocol.RemoteNodeHeader{RemoteAppID: n.RemoteAppID, RemoteNode: n.RemoteNode, RemotePort: n.RemotePort}
		fmt.Fprintf(w, "  qubit_id=%d outcome=%d remote=%d@%s timestamp=%d\n",
			n.QubitID, n.Outcome, n.RemoteAppID, remote.Addr(), n.Timestamp)
	case schema.PayloadErrorCode:
		code, err := resp.ErrorCode()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  error=%s\n", code)
	case schema.PayloadEntInfo:
		qubitID, e, err := resp.EntInfo()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  qubit_id=%d id_ab=%d goodness=%d df=%d timestamp=%d tog=%d\n", qubitID, e.IDAB, e.Goodness, e.DF, e.Timestamp, e.ToG)
	case schema.PayloadTimeInfo:
		ti, err := resp.TimeInfo()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  datetime=%d\n", ti.Datetime)
	}
	return nil
}

func describeRequest(w io.Writer, req builder.Request) error {
	describeHeader(w, req.Header())
	cmd, ok := req.Command()
	if !ok {
		return nil
	}
	fmt.Fprintf(w, "  instruction=%s qubit_id=%d options=%s\n", cmd.Instruction, cmd.QubitID, cmd.Options)
	if r, ok := req.RemoteNode(); ok {
		fmt.Fprintf(w, "  remote=%d@%s\n", r.RemoteAppID, r.Addr())
	}
	if r, ok := req.Rotation(); ok {
		fmt.Fprintf(w, "  step=%d angle=%.6f\n", r.Step, r.Angle())
	}
	if tq, ok := req.TwoQubit(); ok {
		fmt.Fprintf(w, "  target_qubit_id=%d\n", tq.TargetQubitID)
	}
	return nil
}
