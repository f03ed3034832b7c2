package messages

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Messages struct {
	AnalysisCreated MessageText `json:"analysis_created"`
}

// Default returns the built-in texts used when no messages file is configured.
func Default() *Messages {
	return &Messages{
		AnalysisCreated: MessageText{
			Title: "소비 분석",
			Body:  "분석 결과가 생성되었습니다. 그래프를 확인해주세요.",
		},
	}
}

var (
	loaded   *Messages
	loadOnce sync.Once
	loadErr  error
)

// Load reads the messages JSON file and caches the result. An empty path
// yields the defaults. Safe to call from multiple goroutines.
func Load(path string) (*Messages, error) {
	loadOnce.Do(func() {
		if path == "" {
			loaded = Default()
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read messages file: %w", err)
			return
		}
		loaded, loadErr = Parse(data)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return loaded, nil
}

// Parse decodes a messages document over the defaults, so a file may
// override only some texts.
func Parse(data []byte) (*Messages, error) {
	m := Default()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	if m.AnalysisCreated.Body == "" {
		return nil, fmt.Errorf("failed to parse messages file: analysis_created.body is empty")
	}
	return m, nil
}
