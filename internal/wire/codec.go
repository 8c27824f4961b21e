// Package wire encodes relay messages into the multi-message poll
// buffer handed to an unreachable peer, and decodes it back.
//
// The buffer layout is a plain concatenation of uvarint-length-prefixed
// protobuf messages, oldest first.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/wakerelay/wakerelay/pkg/api/relaypb"
)

// ErrMalformedMessage flags a message that cannot be encoded for relay.
var ErrMalformedMessage = errors.New("malformed relay message")

// ErrTruncatedBuffer flags a poll buffer that ends mid-message.
var ErrTruncatedBuffer = errors.New("truncated message buffer")

// EncodeMessage validates and marshals a single relay message.
func EncodeMessage(msg *relaypb.RelayMessage) ([]byte, error) {
	if err := validate(msg); err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message %s: %w", msg.GetMessageId(), err)
	}
	return raw, nil
}

// ComposeBuffer concatenates messages into one wire-level buffer,
// preserving order. It is pure: a failure on any message leaves no
// partial output behind.
func ComposeBuffer(msgs []*relaypb.RelayMessage) ([]byte, error) {
	var buf []byte
	for _, msg := range msgs {
		raw, err := EncodeMessage(msg)
		if err != nil {
			return nil, err
		}
		buf = binary.AppendUvarint(buf, uint64(len(raw)))
		buf = append(buf, raw...)
	}
	return buf, nil
}

// DecomposeBuffer splits a composed buffer back into individual
// messages in their original order.
func DecomposeBuffer(buf []byte) ([]*relaypb.RelayMessage, error) {
	var msgs []*relaypb.RelayMessage
	for len(buf) > 0 {
		length, n := binary.Uvarint(buf)
		if n <= 0 {
			return nil, ErrTruncatedBuffer
		}
		buf = buf[n:]
		if length > uint64(len(buf)) {
			return nil, ErrTruncatedBuffer
		}
		msg := new(relaypb.RelayMessage)
		if err := proto.Unmarshal(buf[:length], msg); err != nil {
			return nil, fmt.Errorf("unmarshal message %d: %w", len(msgs), err)
		}
		msgs = append(msgs, msg)
		buf = buf[length:]
	}
	return msgs, nil
}

func validate(msg *relaypb.RelayMessage) error {
	if msg == nil {
		return fmt.Errorf("%w: nil message", ErrMalformedMessage)
	}
	if msg.MessageId == "" {
		return fmt.Errorf("%w: message id required", ErrMalformedMessage)
	}
	if msg.Sender == "" || msg.Recipient == "" {
		return fmt.Errorf("%w: sender and recipient required", ErrMalformedMessage)
	}
	return nil
}
