// Package relaypb contains hand-maintained Go bindings for relay.proto.
//
// The types follow the proto3 field layout via struct tags so the
// standard gRPC proto codec can marshal them; keep them in sync with
// relay.proto when the wire contract changes.
package relaypb

import (
	proto "github.com/gogo/protobuf/proto"
)

// MessageType mirrors wakerelay.relay.v1.MessageType.
type MessageType int32

const (
	MessageType_MESSAGE_TYPE_REQUEST      MessageType = 0
	MessageType_MESSAGE_TYPE_OK           MessageType = 1
	MessageType_MESSAGE_TYPE_PARTIALLY_OK MessageType = 2
	MessageType_MESSAGE_TYPE_EXCEPTION    MessageType = 3
	MessageType_MESSAGE_TYPE_NOT_FOUND    MessageType = 4
	MessageType_MESSAGE_TYPE_NO_DATA      MessageType = 5
)

var MessageType_name = map[int32]string{
	0: "MESSAGE_TYPE_REQUEST",
	1: "MESSAGE_TYPE_OK",
	2: "MESSAGE_TYPE_PARTIALLY_OK",
	3: "MESSAGE_TYPE_EXCEPTION",
	4: "MESSAGE_TYPE_NOT_FOUND",
	5: "MESSAGE_TYPE_NO_DATA",
}

var MessageType_value = map[string]int32{
	"MESSAGE_TYPE_REQUEST":      0,
	"MESSAGE_TYPE_OK":           1,
	"MESSAGE_TYPE_PARTIALLY_OK": 2,
	"MESSAGE_TYPE_EXCEPTION":    3,
	"MESSAGE_TYPE_NOT_FOUND":    4,
	"MESSAGE_TYPE_NO_DATA":      5,
}

func (t MessageType) String() string {
	return proto.EnumName(MessageType_name, int32(t))
}

// RelayMessage is one opaque unit of overlay traffic.
type RelayMessage struct {
	MessageId      string      `protobuf:"bytes,1,opt,name=message_id,json=messageId,proto3" json:"message_id,omitempty"`
	Sender         string      `protobuf:"bytes,2,opt,name=sender,proto3" json:"sender,omitempty"`
	Recipient      string      `protobuf:"bytes,3,opt,name=recipient,proto3" json:"recipient,omitempty"`
	Type           MessageType `protobuf:"varint,4,opt,name=type,proto3,enum=wakerelay.relay.v1.MessageType" json:"type,omitempty"`
	Payload        []byte      `protobuf:"bytes,5,opt,name=payload,proto3" json:"payload,omitempty"`
	TimestampNanos int64       `protobuf:"varint,6,opt,name=timestamp_nanos,json=timestampNanos,proto3" json:"timestamp_nanos,omitempty"`
}

func (m *RelayMessage) Reset()         { *m = RelayMessage{} }
func (m *RelayMessage) String() string { return proto.CompactTextString(m) }
func (*RelayMessage) ProtoMessage()    {}

func (m *RelayMessage) GetMessageId() string {
	if m != nil {
		return m.MessageId
	}
	return ""
}

func (m *RelayMessage) GetSender() string {
	if m != nil {
		return m.Sender
	}
	return ""
}

func (m *RelayMessage) GetRecipient() string {
	if m != nil {
		return m.Recipient
	}
	return ""
}

func (m *RelayMessage) GetType() MessageType {
	if m != nil {
		return m.Type
	}
	return MessageType_MESSAGE_TYPE_REQUEST
}

func (m *RelayMessage) GetPayload() []byte {
	if m != nil {
		return m.Payload
	}
	return nil
}

func (m *RelayMessage) GetTimestampNanos() int64 {
	if m != nil {
		return m.TimestampNanos
	}
	return 0
}

// BufferPolicy configures when the relay flushes an endpoint buffer.
type BufferPolicy struct {
	MaxMessages int32 `protobuf:"varint,1,opt,name=max_messages,json=maxMessages,proto3" json:"max_messages,omitempty"`
	MaxBytes    int32 `protobuf:"varint,2,opt,name=max_bytes,json=maxBytes,proto3" json:"max_bytes,omitempty"`
	MaxAgeMs    int64 `protobuf:"varint,3,opt,name=max_age_ms,json=maxAgeMs,proto3" json:"max_age_ms,omitempty"`
}

func (m *BufferPolicy) Reset()         { *m = BufferPolicy{} }
func (m *BufferPolicy) String() string { return proto.CompactTextString(m) }
func (*BufferPolicy) ProtoMessage()    {}

func (m *BufferPolicy) GetMaxMessages() int32 {
	if m != nil {
		return m.MaxMessages
	}
	return 0
}

func (m *BufferPolicy) GetMaxBytes() int32 {
	if m != nil {
		return m.MaxBytes
	}
	return 0
}

func (m *BufferPolicy) GetMaxAgeMs() int64 {
	if m != nil {
		return m.MaxAgeMs
	}
	return 0
}

type SetupRequest struct {
	PeerId             string        `protobuf:"bytes,1,opt,name=peer_id,json=peerId,proto3" json:"peer_id,omitempty"`
	RegistrationId     string        `protobuf:"bytes,2,opt,name=registration_id,json=registrationId,proto3" json:"registration_id,omitempty"`
	MapUpdateIntervalS uint32        `protobuf:"varint,3,opt,name=map_update_interval_s,json=mapUpdateIntervalS,proto3" json:"map_update_interval_s,omitempty"`
	Buffer             *BufferPolicy `protobuf:"bytes,4,opt,name=buffer,proto3" json:"buffer,omitempty"`
}

func (m *SetupRequest) Reset()         { *m = SetupRequest{} }
func (m *SetupRequest) String() string { return proto.CompactTextString(m) }
func (*SetupRequest) ProtoMessage()    {}

func (m *SetupRequest) GetPeerId() string {
	if m != nil {
		return m.PeerId
	}
	return ""
}

func (m *SetupRequest) GetRegistrationId() string {
	if m != nil {
		return m.RegistrationId
	}
	return ""
}

func (m *SetupRequest) GetMapUpdateIntervalS() uint32 {
	if m != nil {
		return m.MapUpdateIntervalS
	}
	return 0
}

func (m *SetupRequest) GetBuffer() *BufferPolicy {
	if m != nil {
		return m.Buffer
	}
	return nil
}

type SetupResponse struct {
	RelayPeerId string      `protobuf:"bytes,1,opt,name=relay_peer_id,json=relayPeerId,proto3" json:"relay_peer_id,omitempty"`
	SessionId   string      `protobuf:"bytes,2,opt,name=session_id,json=sessionId,proto3" json:"session_id,omitempty"`
	Status      MessageType `protobuf:"varint,3,opt,name=status,proto3,enum=wakerelay.relay.v1.MessageType" json:"status,omitempty"`
}

func (m *SetupResponse) Reset()         { *m = SetupResponse{} }
func (m *SetupResponse) String() string { return proto.CompactTextString(m) }
func (*SetupResponse) ProtoMessage()    {}

func (m *SetupResponse) GetRelayPeerId() string {
	if m != nil {
		return m.RelayPeerId
	}
	return ""
}

func (m *SetupResponse) GetSessionId() string {
	if m != nil {
		return m.SessionId
	}
	return ""
}

func (m *SetupResponse) GetStatus() MessageType {
	if m != nil {
		return m.Status
	}
	return MessageType_MESSAGE_TYPE_REQUEST
}

type ForwardRequest struct {
	Message *RelayMessage `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *ForwardRequest) Reset()         { *m = ForwardRequest{} }
func (m *ForwardRequest) String() string { return proto.CompactTextString(m) }
func (*ForwardRequest) ProtoMessage()    {}

func (m *ForwardRequest) GetMessage() *RelayMessage {
	if m != nil {
		return m.Message
	}
	return nil
}

type ForwardResponse struct {
	Response *RelayMessage `protobuf:"bytes,1,opt,name=response,proto3" json:"response,omitempty"`
}

func (m *ForwardResponse) Reset()         { *m = ForwardResponse{} }
func (m *ForwardResponse) String() string { return proto.CompactTextString(m) }
func (*ForwardResponse) ProtoMessage()    {}

func (m *ForwardResponse) GetResponse() *RelayMessage {
	if m != nil {
		return m.Response
	}
	return nil
}

type PollRequest struct {
	PeerId         string `protobuf:"bytes,1,opt,name=peer_id,json=peerId,proto3" json:"peer_id,omitempty"`
	RegistrationId string `protobuf:"bytes,2,opt,name=registration_id,json=registrationId,proto3" json:"registration_id,omitempty"`
}

func (m *PollRequest) Reset()         { *m = PollRequest{} }
func (m *PollRequest) String() string { return proto.CompactTextString(m) }
func (*PollRequest) ProtoMessage()    {}

func (m *PollRequest) GetPeerId() string {
	if m != nil {
		return m.PeerId
	}
	return ""
}

func (m *PollRequest) GetRegistrationId() string {
	if m != nil {
		return m.RegistrationId
	}
	return ""
}

type PollResponse struct {
	Status MessageType `protobuf:"varint,1,opt,name=status,proto3,enum=wakerelay.relay.v1.MessageType" json:"status,omitempty"`
	// Length-prefixed concatenation of all buffered messages, oldest first.
	Buffer       []byte `protobuf:"bytes,2,opt,name=buffer,proto3" json:"buffer,omitempty"`
	MessageCount int32  `protobuf:"varint,3,opt,name=message_count,json=messageCount,proto3" json:"message_count,omitempty"`
}

func (m *PollResponse) Reset()         { *m = PollResponse{} }
func (m *PollResponse) String() string { return proto.CompactTextString(m) }
func (*PollResponse) ProtoMessage()    {}

func (m *PollResponse) GetStatus() MessageType {
	if m != nil {
		return m.Status
	}
	return MessageType_MESSAGE_TYPE_REQUEST
}

func (m *PollResponse) GetBuffer() []byte {
	if m != nil {
		return m.Buffer
	}
	return nil
}

func (m *PollResponse) GetMessageCount() int32 {
	if m != nil {
		return m.MessageCount
	}
	return 0
}

type PeerEndpoint struct {
	PeerId  string `protobuf:"bytes,1,opt,name=peer_id,json=peerId,proto3" json:"peer_id,omitempty"`
	Address string `protobuf:"bytes,2,opt,name=address,proto3" json:"address,omitempty"`
}

func (m *PeerEndpoint) Reset()         { *m = PeerEndpoint{} }
func (m *PeerEndpoint) String() string { return proto.CompactTextString(m) }
func (*PeerEndpoint) ProtoMessage()    {}

func (m *PeerEndpoint) GetPeerId() string {
	if m != nil {
		return m.PeerId
	}
	return ""
}

func (m *PeerEndpoint) GetAddress() string {
	if m != nil {
		return m.Address
	}
	return ""
}

type MapUpdateRequest struct {
	PeerId    string          `protobuf:"bytes,1,opt,name=peer_id,json=peerId,proto3" json:"peer_id,omitempty"`
	Neighbors []*PeerEndpoint `protobuf:"bytes,2,rep,name=neighbors,proto3" json:"neighbors,omitempty"`
	// Optional replacement set of push-delivery servers.
	PushServers []string `protobuf:"bytes,3,rep,name=push_servers,json=pushServers,proto3" json:"push_servers,omitempty"`
}

func (m *MapUpdateRequest) Reset()         { *m = MapUpdateRequest{} }
func (m *MapUpdateRequest) String() string { return proto.CompactTextString(m) }
func (*MapUpdateRequest) ProtoMessage()    {}

func (m *MapUpdateRequest) GetPeerId() string {
	if m != nil {
		return m.PeerId
	}
	return ""
}

func (m *MapUpdateRequest) GetNeighbors() []*PeerEndpoint {
	if m != nil {
		return m.Neighbors
	}
	return nil
}

func (m *MapUpdateRequest) GetPushServers() []string {
	if m != nil {
		return m.PushServers
	}
	return nil
}

type MapUpdateResponse struct {
	Neighbors []*PeerEndpoint `protobuf:"bytes,1,rep,name=neighbors,proto3" json:"neighbors,omitempty"`
}

func (m *MapUpdateResponse) Reset()         { *m = MapUpdateResponse{} }
func (m *MapUpdateResponse) String() string { return proto.CompactTextString(m) }
func (*MapUpdateResponse) ProtoMessage()    {}

func (m *MapUpdateResponse) GetNeighbors() []*PeerEndpoint {
	if m != nil {
		return m.Neighbors
	}
	return nil
}

type PushRequest struct {
	RegistrationId string `protobuf:"bytes,1,opt,name=registration_id,json=registrationId,proto3" json:"registration_id,omitempty"`
	RelayPeerId    string `protobuf:"bytes,2,opt,name=relay_peer_id,json=relayPeerId,proto3" json:"relay_peer_id,omitempty"`
	MessageCount   int32  `protobuf:"varint,3,opt,name=message_count,json=messageCount,proto3" json:"message_count,omitempty"`
}

func (m *PushRequest) Reset()         { *m = PushRequest{} }
func (m *PushRequest) String() string { return proto.CompactTextString(m) }
func (*PushRequest) ProtoMessage()    {}

func (m *PushRequest) GetRegistrationId() string {
	if m != nil {
		return m.RegistrationId
	}
	return ""
}

func (m *PushRequest) GetRelayPeerId() string {
	if m != nil {
		return m.RelayPeerId
	}
	return ""
}

func (m *PushRequest) GetMessageCount() int32 {
	if m != nil {
		return m.MessageCount
	}
	return 0
}

type PushResponse struct {
	Status string `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

func (m *PushResponse) Reset()         { *m = PushResponse{} }
func (m *PushResponse) String() string { return proto.CompactTextString(m) }
func (*PushResponse) ProtoMessage()    {}

func (m *PushResponse) GetStatus() string {
	if m != nil {
		return m.Status
	}
	return ""
}

func init() {
	proto.RegisterEnum("wakerelay.relay.v1.MessageType", MessageType_name, MessageType_value)
	proto.RegisterType((*RelayMessage)(nil), "wakerelay.relay.v1.RelayMessage")
	proto.RegisterType((*BufferPolicy)(nil), "wakerelay.relay.v1.BufferPolicy")
	proto.RegisterType((*SetupRequest)(nil), "wakerelay.relay.v1.SetupRequest")
	proto.RegisterType((*SetupResponse)(nil), "wakerelay.relay.v1.SetupResponse")
	proto.RegisterType((*ForwardRequest)(nil), "wakerelay.relay.v1.ForwardRequest")
	proto.RegisterType((*ForwardResponse)(nil), "wakerelay.relay.v1.ForwardResponse")
	proto.RegisterType((*PollRequest)(nil), "wakerelay.relay.v1.PollRequest")
	proto.RegisterType((*PollResponse)(nil), "wakerelay.relay.v1.PollResponse")
	proto.RegisterType((*PeerEndpoint)(nil), "wakerelay.relay.v1.PeerEndpoint")
	proto.RegisterType((*MapUpdateRequest)(nil), "wakerelay.relay.v1.MapUpdateRequest")
	proto.RegisterType((*MapUpdateResponse)(nil), "wakerelay.relay.v1.MapUpdateResponse")
	proto.RegisterType((*PushRequest)(nil), "wakerelay.relay.v1.PushRequest")
	proto.RegisterType((*PushResponse)(nil), "wakerelay.relay.v1.PushResponse")
}
