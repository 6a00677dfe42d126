package chat

const (
	frameCommand = "command"
	framePing    = "ping"
	frameMessage = "message"
	framePong    = "pong"
	frameError   = "error"
)

type inFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
}

type messageFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func message(text string) messageFrame { return messageFrame{Type: frameMessage, Text: text} }

func failure(reason string) errorFrame { return errorFrame{Type: frameError, Error: reason} }
