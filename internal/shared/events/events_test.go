package events

import (
	"testing"
	"time"
)

func TestAnalysisCreated_JSON(t *testing.T) {
	msg := NewAnalysisCreated(42, 7, "weekly", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := AnalysisCreatedFromJSON(data)
	if err != nil {
		t.Fatalf("AnalysisCreatedFromJSON() error = %v", err)
	}
	if got.AnalysisID != 42 || got.UserID != 7 || got.AnalysisType != "weekly" || got.StartDate != "2024-03-04" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestAnalysisCreatedFromJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `nope`},
		{name: "missing analysis id", data: `{"userId":1}`},
		{name: "missing user id", data: `{"analysisId":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AnalysisCreatedFromJSON([]byte(tt.data)); err == nil {
				t.Error("AnalysisCreatedFromJSON() error = nil, want error")
			}
		})
	}
}
