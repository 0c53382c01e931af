package chat

import (
	"encoding/json"

	"chatrelay/internal/pkg/errs"
)

// Dispatch decodes one inbound frame and runs the matching session operation.
// The returned error is what the sender should be told; nil means success.
func Dispatch(s *Session, frame InboundFrame) *errs.CustomError {
	switch frame.Type {
	case TypeJoin:
		var p JoinPayload
		if err := decodePayload(frame.Payload, &p); err != nil {
			return err
		}
		return s.Join(p.Username, p.Room)

	case TypeSendMessage:
		var p TextPayload
		if err := decodePayload(frame.Payload, &p); err != nil {
			return err
		}
		return s.SendMessage(p.Text)

	case TypeSendLocation:
		var p LocationRequest
		if err := decodePayload(frame.Payload, &p); err != nil {
			return err
		}
		if p.Latitude == nil || p.Longitude == nil {
			return errs.NewError(errs.ErrInvalidLocation)
		}
		return s.SendLocation(Location{Latitude: *p.Latitude, Longitude: *p.Longitude})

	default:
		return errs.NewError(errs.ErrUnsupportedMessageType, frame.Type)
	}
}

// ParseFrame decodes raw bytes into an InboundFrame.
func ParseFrame(raw []byte) (InboundFrame, *errs.CustomError) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return InboundFrame{}, errs.NewError(errs.ErrInvalidJSONFormat)
	}
	return frame, nil
}

// decodePayload leaves dst untouched for a missing payload; the caller's field checks
// report what is absent.
func decodePayload(raw json.RawMessage, dst any) *errs.CustomError {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}
	return nil
}
