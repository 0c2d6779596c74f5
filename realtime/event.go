package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/blackmichael/go-plurk"
)

// channelMessage is the raw JSON frame from the comet channel.
type channelMessage struct {
	NewOffset int64          `json:"new_offset"`
	Data      []channelEntry `json:"data"`
}

// channelEntry is one event within a frame. Exactly one of Plurk or Response
// is set depending on Type.
type channelEntry struct {
	Type     string          `json:"type"`
	PlurkID  int64           `json:"plurk_id"`
	Plurk    *plurk.Plurk    `json:"-"`
	Response *plurk.Response `json:"-"`
}

const (
	entryNewPlurk    = "new_plurk"
	entryNewResponse = "new_response"
)

func parseMessage(data []byte) (*channelMessage, error) {
	var raw struct {
		NewOffset int64             `json:"new_offset"`
		Data      []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}

	msg := &channelMessage{NewOffset: raw.NewOffset}

	for _, entryData := range raw.Data {
		var header struct {
			Type    string `json:"type"`
			PlurkID int64  `json:"plurk_id"`
		}
		if err := json.Unmarshal(entryData, &header); err != nil {
			return nil, fmt.Errorf("unmarshal entry header: %w", err)
		}

		entry := channelEntry{Type: header.Type, PlurkID: header.PlurkID}

		switch header.Type {
		case entryNewPlurk:
			var p plurk.Plurk
			if err := json.Unmarshal(entryData, &p); err != nil {
				return nil, fmt.Errorf("unmarshal plurk entry: %w", err)
			}
			entry.Plurk = &p

		case entryNewResponse:
			var wrapper struct {
				Response *plurk.Response `json:"response"`
			}
			if err := json.Unmarshal(entryData, &wrapper); err != nil {
				return nil, fmt.Errorf("unmarshal response entry: %w", err)
			}
			entry.Response = wrapper.Response
		}

		msg.Data = append(msg.Data, entry)
	}

	return msg, nil
}
