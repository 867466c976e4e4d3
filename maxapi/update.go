package maxapi

import (
	"encoding/json"

	maxigo "github.com/maxigo-bot/maxigo-client"

	"github.com/maxigo-bot/keygram"
)

// updateHeader is used to peek at the update_type discriminator.
type updateHeader struct {
	UpdateType maxigo.UpdateType `json:"update_type"`
}

// ParseUpdate unmarshals a raw JSON update into a concrete typed struct.
// Unknown update types return nil, nil.
func ParseUpdate(data json.RawMessage) (any, error) {
	var header updateHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, err
	}

	var target any
	switch header.UpdateType {
	case maxigo.UpdateMessageCreated:
		target = new(maxigo.MessageCreatedUpdate)
	case maxigo.UpdateMessageCallback:
		target = new(maxigo.MessageCallbackUpdate)
	case maxigo.UpdateMessageEdited:
		target = new(maxigo.MessageEditedUpdate)
	case maxigo.UpdateMessageRemoved:
		target = new(maxigo.MessageRemovedUpdate)
	case maxigo.UpdateBotStarted:
		target = new(maxigo.BotStartedUpdate)
	case maxigo.UpdateBotStopped:
		target = new(maxigo.BotStoppedUpdate)
	default:
		return nil, nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	return target, nil
}

// convertUpdate maps a parsed update onto the keygram model. Kinds other
// than new messages and button presses only carry Raw.
func convertUpdate(id int64, parsed any) keygram.Update {
	out := keygram.Update{ID: id, Raw: parsed}
	switch u := parsed.(type) {
	case *maxigo.MessageCreatedUpdate:
		ev := &keygram.MessageEvent{
			Text:   derefString(u.Message.Body.Text),
			Origin: messageRef(&u.Message),
		}
		if u.Message.Sender != nil {
			ev.From = u.Message.Sender.UserID
		}
		out.Message = ev
	case *maxigo.MessageCallbackUpdate:
		ev := &keygram.CallbackEvent{
			ID:   u.Callback.CallbackID,
			Data: u.Callback.Payload,
			From: u.Callback.User.UserID,
		}
		if u.Message != nil {
			ref := messageRef(u.Message)
			ev.Origin = &ref
		}
		out.Callback = ev
	}
	return out
}

func messageRef(m *maxigo.Message) keygram.MessageRef {
	return keygram.MessageRef{
		ChatID: derefInt64(m.Recipient.ChatID),
		MID:    m.Body.MID,
		Media:  len(m.Body.Attachments) > 0 && derefString(m.Body.Text) == "",
	}
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
