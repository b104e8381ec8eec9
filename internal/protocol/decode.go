package protocol

// Each decoder reads exactly the fixed width of its header from the front of
// buf. Bytes past that width are left alone.

// DecodeProtocolHeader decodes the leading CQC header. The version byte is
// returned as-is; message-level decoders decide which versions they accept.
func DecodeProtocolHeader(buf []byte) (ProtocolHeader, error) {
	if len(buf) < ProtocolHeaderLen {
		return ProtocolHeader{}, Truncated("protocol_header", ProtocolHeaderLen, len(buf))
	}
	t := MessageType(buf[1])
	if !t.Valid() {
		return ProtocolHeader{}, Unrecognized("protocol_header", "msg_type", uint64(buf[1]))
	}
	return ProtocolHeader{
		Version: buf[0],
		Type:    t,
		AppID:   be.Uint16(buf[2:4]),
		Length:  be.Uint32(buf[4:8]),
	}, nil
}

func DecodeCommandHeader(buf []byte) (CommandHeader, error) {
	if len(buf) < CommandHeaderLen {
		return CommandHeader{}, Truncated("command_header", CommandHeaderLen, len(buf))
	}
	instr := Instruction(buf[2])
	if !instr.Valid() {
		return CommandHeader{}, Unrecognized("command_header", "instruction", uint64(buf[2]))
	}
	opts := Options(buf[3])
	if opts.Undefined() != 0 {
		return CommandHeader{}, Unrecognized("command_header", "options", uint64(buf[3]))
	}
	return CommandHeader{
		QubitID:     be.Uint16(buf[0:2]),
		Instruction: instr,
		Options:     opts,
	}, nil
}

func DecodeNotifyHeader(buf []byte) (NotifyHeader, error) {
	if len(buf) < NotifyHeaderLen {
		return NotifyHeader{}, Truncated("notify_header", NotifyHeaderLen, len(buf))
	}
	return NotifyHeader{
		QubitID:     be.Uint16(buf[0:2]),
		Outcome:     buf[2],
		RemoteAppID: be.Uint16(buf[3:5]),
		RemoteNode:  be.Uint32(buf[5:9]),
		RemotePort:  be.Uint16(buf[9:11]),
		Timestamp:   be.Uint64(buf[11:19]),
	}, nil
}

func DecodeRemoteNodeHeader(buf []byte) (RemoteNodeHeader, error) {
	if len(buf) < RemoteNodeHeaderLen {
		return RemoteNodeHeader{}, Truncated("remote_node_header", RemoteNodeHeaderLen, len(buf))
	}
	return RemoteNodeHeader{
		RemoteAppID: be.Uint16(buf[0:2]),
		RemoteNode:  be.Uint32(buf[2:6]),
		RemotePort:  be.Uint16(buf[6:8]),
	}, nil
}

func DecodeRotationHeader(buf []byte) (RotationHeader, error) {
	if len(buf) < RotationHeaderLen {
		return RotationHeader{}, Truncated("rotation_header", RotationHeaderLen, len(buf))
	}
	return RotationHeader{Step: buf[0]}, nil
}

func DecodeTwoQubitHeader(buf []byte) (TwoQubitHeader, error) {
	if len(buf) < TwoQubitHeaderLen {
		return TwoQubitHeader{}, Truncated("two_qubit_header", TwoQubitHeaderLen, len(buf))
	}
	return TwoQubitHeader{TargetQubitID: be.Uint16(buf[0:2])}, nil
}

func DecodeQubitHeader(buf []byte) (QubitHeader, error) {
	if len(buf) < QubitHeaderLen {
		return QubitHeader{}, Truncated("qubit_header", QubitHeaderLen, len(buf))
	}
	return QubitHeader{QubitID: be.Uint16(buf[0:2])}, nil
}

func DecodeTimeInfoHeader(buf []byte) (TimeInfoHeader, error) {
	if len(buf) < TimeInfoHeaderLen {
		return TimeInfoHeader{}, Truncated("time_info_header", TimeInfoHeaderLen, len(buf))
	}
	return TimeInfoHeader{Datetime: be.Uint64(buf[0:8])}, nil
}

func DecodeEntInfoHeader(buf []byte) (EntInfoHeader, error) {
	if len(buf) < EntInfoHeaderLen {
		return EntInfoHeader{}, Truncated("ent_info_header", EntInfoHeaderLen, len(buf))
	}
	return EntInfoHeader{
		NodeA:     be.Uint32(buf[0:4]),
		PortA:     be.Uint16(buf[4:6]),
		AppIDA:    be.Uint16(buf[6:8]),
		NodeB:     be.Uint32(buf[8:12]),
		PortB:     be.Uint16(buf[12:14]),
		AppIDB:    be.Uint16(buf[14:16]),
		IDAB:      be.Uint32(buf[16:20]),
		Timestamp: be.Uint64(buf[20:28]),
		ToG:       be.Uint64(buf[28:36]),
		Goodness:  be.Uint16(buf[36:38]),
		DF:        buf[38],
		Align:     buf[39],
	}, nil
}
