package ipc

// OrderCommand tells the simulator what a ship should be doing now.
type OrderCommand struct {
	Ship         int     `json:"ship"`
	Order        string  `json:"order"`
	Target       int     `json:"target,omitempty"`
	Destination  Vec     `json:"destination"`
	DesiredRange float64 `json:"desired_range,omitempty"`
	DesiredSpeed float64 `json:"desired_speed,omitempty"`
	Behaviour    string  `json:"behaviour,omitempty"`
}

// CommsCommand is text a ship broadcasts.
type CommsCommand struct {
	Ship int    `json:"ship"`
	Text string `json:"text"`
}
