package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// AnalysisCreatedRoutingKey names the analysis.created event on every transport.
const AnalysisCreatedRoutingKey = "analysis.created"

// AnalysisCreated announces a newly stored spending analysis. It carries ids
// only; consumers read anything else from the database.
type AnalysisCreated struct {
	AnalysisID   int64     `json:"analysisId"`
	UserID       int64     `json:"userId"`
	AnalysisType string    `json:"analysisType"`
	StartDate    string    `json:"startDate"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewAnalysisCreated(analysisID, userID int64, analysisType string, startDate time.Time) *AnalysisCreated {
	return &AnalysisCreated{
		AnalysisID:   analysisID,
		UserID:       userID,
		AnalysisType: analysisType,
		StartDate:    startDate.Format(time.DateOnly),
		Timestamp:    time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AnalysisCreated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AnalysisCreatedFromJSON decodes and validates a message.
func AnalysisCreatedFromJSON(data []byte) (*AnalysisCreated, error) {
	var msg AnalysisCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.AnalysisID <= 0 || msg.UserID <= 0 {
		return nil, errors.New("analysis.created message is missing ids")
	}
	return &msg, nil
}

// AnalysisCreatedHandler processes one delivered event. Returning an error
// asks the transport to redeliver it.
type AnalysisCreatedHandler func(ctx context.Context, msg *AnalysisCreated) error
