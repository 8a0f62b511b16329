package model

import "encoding/json"

// Poll is a voting contract record, rebuilt from the contract on every query.
type Poll struct {
	PollID      uint64 `json:"pollId"`
	Creator     string `json:"creator"`
	Title       string `json:"title"`
	Description string `json:"description"`
	YesVotes    uint64 `json:"yesVotes"`
	NoVotes     uint64 `json:"noVotes"`
	EndBlock    uint64 `json:"endBlock"`
	IsActive    bool   `json:"isActive"`
}

// PollEntry is one slot of an aggregation result: a poll or a lookup error.
type PollEntry struct {
	PollID uint64
	Poll   *Poll
	Error  string
}

type pollError struct {
	PollID uint64 `json:"pollId"`
	Error  string `json:"error"`
}

// MarshalJSON renders a poll as-is and a failed lookup as {pollId, error}.
func (e PollEntry) MarshalJSON() ([]byte, error) {
	if e.Poll == nil {
		return json.Marshal(pollError{PollID: e.PollID, Error: e.Error})
	}
	return json.Marshal(e.Poll)
}

// UnmarshalJSON accepts either shape produced by MarshalJSON.
func (e *PollEntry) UnmarshalJSON(data []byte) error {
	var probe struct {
		PollID uint64  `json:"pollId"`
		Error  *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		*e = PollEntry{PollID: probe.PollID, Error: *probe.Error}
		return nil
	}
	var poll Poll
	if err := json.Unmarshal(data, &poll); err != nil {
		return err
	}
	*e = PollEntry{PollID: poll.PollID, Poll: &poll}
	return nil
}

// PollList is the aggregation response body.
type PollList struct {
	Count uint64      `json:"count"`
	Polls []PollEntry `json:"polls"`
}

// PollCount is the poll-count response body.
type PollCount struct {
	Okay   bool   `json:"okay"`
	Result string `json:"result"`
	Count  uint64 `json:"count"`
}

// ErrorResponse is the JSON error body used by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
