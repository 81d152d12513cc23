package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type UpdateKind string

const (
	KindInteraction UpdateKind = "interaction"
	KindText        UpdateKind = "text"
	KindIgnored     UpdateKind = "ignored"
)

var ErrMalformedInteraction = errors.New("malformed interaction data")

// Inbound is a decoded chat update.
type Inbound struct {
	UpdateID int
	Kind     UpdateKind
	ChatID   int64

	InteractionID  string
	Action         string
	NotificationID int64
	// ParseErr is set when an interaction carried unusable data. The
	// interaction still has to be answered.
	ParseErr error

	Text string
}

func DecodeUpdate(body []byte) (*Inbound, error) {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, fmt.Errorf("failed to decode update: %w", err)
	}
	return FromUpdate(update), nil
}

func FromUpdate(update tgbotapi.Update) *Inbound {
	in := &Inbound{UpdateID: update.UpdateID, Kind: KindIgnored}

	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		in.Kind = KindInteraction
		in.InteractionID = cq.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			in.ChatID = cq.Message.Chat.ID
		} else if cq.From != nil {
			in.ChatID = cq.From.ID
		}
		in.Action, in.NotificationID, in.ParseErr = ParseInteractionData(cq.Data)

	case update.Message != nil && update.Message.Chat != nil && update.Message.Text != "":
		in.Kind = KindText
		in.ChatID = update.Message.Chat.ID
		in.Text = update.Message.Text
	}

	return in
}

// ParseInteractionData splits "<action>_<notificationId>".
func ParseInteractionData(data string) (string, int64, error) {
	parts := strings.Split(data, "_")
	if len(parts) != 2 {
		return "", 0, ErrMalformedInteraction
	}

	action := parts[0]
	if action != ActionApprove && action != ActionReject {
		return "", 0, fmt.Errorf("%w: unknown action %q", ErrMalformedInteraction, action)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: bad notification id %q", ErrMalformedInteraction, parts[1])
	}
	return action, id, nil
}
