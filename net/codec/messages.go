package codec

import "fmt"

// MessageType is the frame's type_tag byte. Numeric values are part of the
// wire format and must never be renumbered once shipped; new message types
// are appended.
type MessageType uint8

const (
	MsgHandshake MessageType = iota
	MsgHandshakeResponse
	MsgInput
	MsgChunkData
	MsgEntityDelta
	MsgServerState
	MsgChat
	MsgDiagnostics
)

// messageTypeNames is the ordered name list schema_hash() hashes over. Order
// matters: it is part of the hash input, so a reordering changes the hash
// even if no type was added or removed.
var messageTypeNames = []string{
	"Handshake",
	"HandshakeResponse",
	"Input",
	"ChunkData",
	"EntityDelta",
	"ServerState",
	"Chat",
	"Diagnostics",
}

// ClientMessage is implemented by every message a client may send.
type ClientMessage interface {
	clientMessage()
}

// ServerMessage is implemented by every message the server may send.
type ServerMessage interface {
	serverMessage()
}

// Handshake is sent by the client once, on the reliable handshake stream,
// immediately after dialing.
type Handshake struct {
	Version    uint32
	SchemaHash uint64
}

func (Handshake) clientMessage() {}

// HandshakeResponse is the server's reply: either accepted with an assigned
// player entity id, or rejected with a human-readable reason.
type HandshakeResponse struct {
	Accepted       bool
	PlayerEntityID uint64
	Reason         string
}

func (HandshakeResponse) serverMessage() {}

// Input is one client's per-tick input bundle, sent on the unreliable
// Input channel.
type Input struct {
	ClientID uint64
	Sequence uint64
	Payload  []byte
}

func (Input) clientMessage() {}

// ChunkData carries a generated/relighted/remeshed chunk's wire payload on
// the reliable ChunkStream channel. Voxels is an opaque blob (the region
// persistence layout's per-chunk encoding), MeshHash the BLAKE3 content
// hash clients use to skip re-upload of unchanged meshes.
type ChunkData struct {
	ChunkX, ChunkZ int32
	MeshHash       [32]byte
	Voxels         []byte
}

func (ChunkData) serverMessage() {}

// EntityDelta reports one entity's updated transform, sent unreliably
// every tick the entity moved.
type EntityDelta struct {
	EntityID               uint64
	PosX, PosY, PosZ       float64
	VelX, VelY, VelZ       float64
}

func (EntityDelta) serverMessage() {}

// ServerState carries tick-level world state a client needs to render:
// the current SimTick and weather enum.
type ServerState struct {
	Tick    uint64
	Weather uint8
}

func (ServerState) serverMessage() {}

// Chat is a reliable chat line, sendable by either side.
type Chat struct {
	From uint64
	Text string
}

func (Chat) clientMessage() {}
func (Chat) serverMessage() {}

// Diagnostics is a reliable server->client debug/telemetry line.
type Diagnostics struct {
	Text string
}

func (Diagnostics) serverMessage() {}

// EncodeClientMessage returns the type tag and encoded body for m.
func EncodeClientMessage(m ClientMessage) (MessageType, []byte, error) {
	buf := newBuffer()
	switch v := m.(type) {
	case Handshake:
		buf.WriteU32(v.Version)
		buf.WriteU64(v.SchemaHash)
		return MsgHandshake, buf.Bytes(), nil
	case Input:
		buf.WriteU64(v.ClientID)
		buf.WriteU64(v.Sequence)
		buf.WriteBytes(v.Payload)
		return MsgInput, buf.Bytes(), nil
	case Chat:
		buf.WriteU64(v.From)
		buf.WriteString(v.Text)
		return MsgChat, buf.Bytes(), nil
	default:
		return 0, nil, fmt.Errorf("codec: unknown client message type %T", m)
	}
}

// DecodeClientMessage decodes body according to tag.
func DecodeClientMessage(tag MessageType, body []byte) (ClientMessage, error) {
	r := newReader(body)
	switch tag {
	case MsgHandshake:
		version, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Handshake.version: %w", err)
		}
		hash, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Handshake.schema_hash: %w", err)
		}
		return Handshake{Version: version, SchemaHash: hash}, nil
	case MsgInput:
		clientID, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Input.client_id: %w", err)
		}
		seq, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Input.sequence: %w", err)
		}
		payload, err := r.ReadBytes()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Input.payload: %w", err)
		}
		return Input{ClientID: clientID, Sequence: seq, Payload: payload}, nil
	case MsgChat:
		from, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Chat.from: %w", err)
		}
		text, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Chat.text: %w", err)
		}
		return Chat{From: from, Text: text}, nil
	default:
		return nil, fmt.Errorf("codec: unknown client message tag %d", tag)
	}
}

// EncodeServerMessage returns the type tag and encoded body for m.
func EncodeServerMessage(m ServerMessage) (MessageType, []byte, error) {
	buf := newBuffer()
	switch v := m.(type) {
	case HandshakeResponse:
		buf.WriteBool(v.Accepted)
		buf.WriteU64(v.PlayerEntityID)
		buf.WriteString(v.Reason)
		return MsgHandshakeResponse, buf.Bytes(), nil
	case ChunkData:
		buf.WriteI32(v.ChunkX)
		buf.WriteI32(v.ChunkZ)
		buf.Write(v.MeshHash[:])
		buf.WriteBytes(v.Voxels)
		return MsgChunkData, buf.Bytes(), nil
	case EntityDelta:
		buf.WriteU64(v.EntityID)
		buf.WriteF64(v.PosX)
		buf.WriteF64(v.PosY)
		buf.WriteF64(v.PosZ)
		buf.WriteF64(v.VelX)
		buf.WriteF64(v.VelY)
		buf.WriteF64(v.VelZ)
		return MsgEntityDelta, buf.Bytes(), nil
	case ServerState:
		buf.WriteU64(v.Tick)
		buf.WriteU8(v.Weather)
		return MsgServerState, buf.Bytes(), nil
	case Chat:
		buf.WriteU64(v.From)
		buf.WriteString(v.Text)
		return MsgChat, buf.Bytes(), nil
	case Diagnostics:
		buf.WriteString(v.Text)
		return MsgDiagnostics, buf.Bytes(), nil
	default:
		return 0, nil, fmt.Errorf("codec: unknown server message type %T", m)
	}
}

// DecodeServerMessage decodes body according to tag.
func DecodeServerMessage(tag MessageType, body []byte) (ServerMessage, error) {
	r := newReader(body)
	switch tag {
	case MsgHandshakeResponse:
		accepted, err := r.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("codec: decode HandshakeResponse.accepted: %w", err)
		}
		id, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode HandshakeResponse.player_entity_id: %w", err)
		}
		reason, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("codec: decode HandshakeResponse.reason: %w", err)
		}
		return HandshakeResponse{Accepted: accepted, PlayerEntityID: id, Reason: reason}, nil
	case MsgChunkData:
		x, err := r.ReadI32()
		if err != nil {
			return nil, fmt.Errorf("codec: decode ChunkData.chunk_x: %w", err)
		}
		z, err := r.ReadI32()
		if err != nil {
			return nil, fmt.Errorf("codec: decode ChunkData.chunk_z: %w", err)
		}
		var hash [32]byte
		hashBytes, err := readExact(r, 32)
		if err != nil {
			return nil, fmt.Errorf("codec: decode ChunkData.mesh_hash: %w", err)
		}
		copy(hash[:], hashBytes)
		voxels, err := r.ReadBytes()
		if err != nil {
			return nil, fmt.Errorf("codec: decode ChunkData.voxels: %w", err)
		}
		return ChunkData{ChunkX: x, ChunkZ: z, MeshHash: hash, Voxels: voxels}, nil
	case MsgEntityDelta:
		var d EntityDelta
		var err error
		if d.EntityID, err = r.ReadU64(); err != nil {
			return nil, fmt.Errorf("codec: decode EntityDelta.entity_id: %w", err)
		}
		for _, f := range []*float64{&d.PosX, &d.PosY, &d.PosZ, &d.VelX, &d.VelY, &d.VelZ} {
			if *f, err = r.ReadF64(); err != nil {
				return nil, fmt.Errorf("codec: decode EntityDelta field: %w", err)
			}
		}
		return d, nil
	case MsgServerState:
		tick, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode ServerState.tick: %w", err)
		}
		weather, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("codec: decode ServerState.weather: %w", err)
		}
		return ServerState{Tick: tick, Weather: weather}, nil
	case MsgChat:
		from, err := r.ReadU64()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Chat.from: %w", err)
		}
		text, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Chat.text: %w", err)
		}
		return Chat{From: from, Text: text}, nil
	case MsgDiagnostics:
		text, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("codec: decode Diagnostics.text: %w", err)
		}
		return Diagnostics{Text: text}, nil
	default:
		return nil, fmt.Errorf("codec: unknown server message tag %d", tag)
	}
}

func readExact(r *reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}
