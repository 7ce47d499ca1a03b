package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError describes an inbound frame the relay codec could not accept.
// Callers drop the frame; no reply is sent to the carrier.
type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badFrame(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_frame", Message: message, Param: param}
}

// StartEvent carries call metadata delivered once at call setup.
type StartEvent struct {
	CallSID string
	From    string
}

// TranscriptionEvent carries one recognized caller utterance.
type TranscriptionEvent struct {
	Text string
}

// StopEvent marks call termination. It carries no payload.
type StopEvent struct{}

// UnknownEvent is any discriminant the bridge does not handle.
type UnknownEvent struct {
	Event string
}

// Decode parses one inbound ConversationRelay frame into its typed variant.
// Frames are discriminated on the top-level "event" field.
func Decode(data []byte) (any, error) {
	var envelope struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, badFrame("invalid json frame", "")
	}
	event := strings.TrimSpace(envelope.Event)
	if event == "" {
		return nil, badFrame("missing event", "event")
	}

	switch event {
	case "start":
		var msg struct {
			Start struct {
				CallSID string `json:"callSid"`
				From    string `json:"from"`
			} `json:"start"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid start frame", "")
		}
		return StartEvent{
			CallSID: strings.TrimSpace(msg.Start.CallSID),
			From:    strings.TrimSpace(msg.Start.From),
		}, nil
	case "transcription":
		var msg struct {
			Transcription struct {
				Text string `json:"text"`
			} `json:"transcription"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, badFrame("invalid transcription frame", "")
		}
		return TranscriptionEvent{Text: msg.Transcription.Text}, nil
	case "stop":
		return StopEvent{}, nil
	default:
		return UnknownEvent{Event: event}, nil
	}
}

type speakToken struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SpeakFrame instructs the carrier to synthesize text to the caller.
type SpeakFrame struct {
	Event string     `json:"event"`
	Token speakToken `json:"token"`
}

// EncodeSpeak builds the outbound frame for one spoken utterance.
func EncodeSpeak(text string) ([]byte, error) {
	frame := SpeakFrame{Event: "send", Token: speakToken{Type: "text", Text: text}}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("encode speak frame: %w", err)
	}
	return data, nil
}
