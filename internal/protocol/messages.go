package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Name            string `json:"name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	ParticipantID   string `json:"participant_id"`
	TickRateHz      int    `json:"tick_rate_hz"`
	Tick            uint64 `json:"tick"`
}

// TICK (server -> client), broadcast once per simulation step.
type TickMsg struct {
	Type         string `json:"type"`
	Tick         uint64 `json:"tick"`
	Participants int    `json:"participants"`
}

// PRINT (server -> client), status text only.
type PrintMsg struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
