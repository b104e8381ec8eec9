package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/netip"

	"github.com/danmuck/cqc/internal/observability"
	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/builder"
	"github.com/danmuck/cqc/internal/protocol/frame"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type buildFlags struct {
	qubit      uint16
	target     uint16
	step       uint8
	angle      float64
	peer       string
	remoteApp  uint16
	remoteNode string
	remotePort uint16
	notify     bool
	block      bool
	ifThen     bool
	raw        bool
}

func (f *buildFlags) options() protocol.Options {
	var o protocol.Options
	if f.notify {
		o = o.Set(protocol.OptNotify)
	}
	if f.block {
		o = o.Set(protocol.OptBlock)
	}
	if f.ifThen {
		o = o.Set(protocol.OptIfThen)
	}
	return o
}

func (f *buildFlags) params(cmd *cobra.Command, opts *rootOptions) (builder.Params, error) {
	p := builder.Params{QubitID: f.qubit, Options: f.options()}
	flags := cmd.Flags()

	if flags.Changed("target") {
		target := f.target
		p.Target = &target
	}
	switch {
	case flags.Changed("step") && flags.Changed("angle"):
		return builder.Params{}, fmt.Errorf("--step and --angle are mutually exclusive")
	case flags.Changed("step"):
		step := f.step
		p.Step = &step
	case flags.Changed("angle"):
		step := protocol.RotationStep(f.angle)
		p.Step = &step
	}

	addrFlags := flags.Changed("remote-app") || flags.Changed("remote-port")
	switch {
	case f.peer != "" && (flags.Changed("remote-node") || addrFlags):
		return builder.Params{}, fmt.Errorf("--peer cannot be combined with --remote-node, --remote-app or --remote-port")
	case addrFlags && !flags.Changed("remote-node"):
		return builder.Params{}, fmt.Errorf("--remote-app and --remote-port require --remote-node")
	case f.peer != "":
		peer, ok := opts.session.Peer(f.peer)
		if !ok {
			return builder.Params{}, fmt.Errorf("unknown peer %q", f.peer)
		}
		remote, err := peer.RemoteNode()
		if err != nil {
			return builder.Params{}, fmt.Errorf("peer %q: %w", f.peer, err)
		}
		p.Remote = &remote
	case flags.Changed("remote-node"):
		addr, err := netip.ParseAddr(f.remoteNode)
		if err != nil {
			return builder.Params{}, fmt.Errorf("remote-node: %w", err)
		}
		remote, ok := protocol.RemoteNodeFromAddr(f.remoteApp, netip.AddrPortFrom(addr, f.remotePort))
		if !ok {
			return builder.Params{}, fmt.Errorf("remote-node %s is not IPv4", f.remoteNode)
		}
		p.Remote = &remote
	}
	return p, nil
}

func emit(w io.Writer, m protocol.Encodable, raw bool) error {
	if raw {
		return frame.WriteMessage(w, m)
	}
	_, err := fmt.Fprintln(w, hex.EncodeToString(protocol.Encode(m)))
	return err
}

func buildCmd(opts *rootOptions) *cobra.Command {
	f := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build <instruction>",
		Short: "Build a command request",
		Long: `Build a CQC command request and print its encoding.

The instruction name is case-insensitive (cnot, rot_x, measure-inplace, ...).
Remote instructions take --peer or --remote-node/--remote-port/--remote-app,
rotations take --step or --angle, two-qubit gates take --target.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instr, err := protocol.ParseInstruction(args[0])
			if err != nil {
				observability.RecordError("build", err)
				return err
			}
			p, err := f.params(cmd, opts)
			if err != nil {
				return err
			}
			req, err := builder.Build(opts.session.AppID, instr, p)
			if err != nil {
				observability.RecordError("build", err)
				return err
			}
			log.Debug().Stringer("instruction", instr).Int("bytes", req.Len()).Msg("cqcctl build")
			return emit(cmd.OutOrStdout(), req, f.raw)
		},
	}

	cmd.Flags().Uint16Var(&f.qubit, "qubit", 0, "qubit id the instruction acts on")
	cmd.Flags().Uint16Var(&f.target, "target", 0, "target qubit id (cnot, cphase)")
	cmd.Flags().Uint8Var(&f.step, "step", 0, "rotation step, angle = step*2pi/256")
	cmd.Flags().Float64Var(&f.angle, "angle", 0, "rotation angle in radians")
	cmd.Flags().StringVar(&f.peer, "peer", "", "peer name from the session config (send, epr)")
	cmd.Flags().Uint16Var(&f.remoteApp, "remote-app", 0, "remote application id")
	cmd.Flags().StringVar(&f.remoteNode, "remote-node", "", "remote node IPv4 address")
	cmd.Flags().Uint16Var(&f.remotePort, "remote-port", 0, "remote node port")
	cmd.Flags().BoolVar(&f.notify, "notify", false, "request a completion notification")
	cmd.Flags().BoolVar(&f.block, "block", false, "request blocking semantics")
	cmd.Flags().BoolVar(&f.ifThen, "if-then", false, "set the if-then option bit")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "write raw bytes instead of hex")

	return cmd
}

func helloCmd(opts *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Build an alive check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return emit(cmd.OutOrStdout(), builder.New(opts.session.AppID).Hello(), raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "write raw bytes instead of hex")
	return cmd
}

func getTimeCmd(opts *rootOptions) *cobra.Command {
	var (
		qubit uint16
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "get-time",
		Short: "Build a qubit creation-time query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := builder.New(opts.session.AppID).GetTime(qubit, 0)
			if err != nil {
				observability.RecordError("build", err)
				return err
			}
			return emit(cmd.OutOrStdout(), req, raw)
		},
	}
	cmd.Flags().Uint16Var(&qubit, "qubit", 0, "qubit id to query")
	cmd.Flags().BoolVar(&raw, "raw", false, "write raw bytes instead of hex")
	return cmd
}

func instructionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instructions",
		Short: "List instruction names and codes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, instr := range protocol.Instructions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", uint8(instr), instr)
			}
		},
	}
}
