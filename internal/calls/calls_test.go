package calls

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackzampolin/maestro/internal/providers"
)

func TestFromChatResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		temp := 0.1
		result := &providers.ChatResult{
			Content:          `{"title":"x"}`,
			PromptTokens:     120,
			CompletionTokens: 40,
			TotalTokens:      160,
			ExecutionTime:    1500 * time.Millisecond,
			Provider:         "gemini",
			ModelUsed:        "gemini-1.5-flash-latest",
			Success:          true,
		}

		call := FromChatResult(result, RecordOptions{
			SessionID:   "sess-1",
			PromptKey:   "extract.release.system",
			Temperature: &temp,
		})

		if call == nil {
			t.Fatal("FromChatResult() = nil")
		}
		if call.ID == "" {
			t.Error("ID not assigned")
		}
		if call.LatencyMs != 1500 {
			t.Errorf("LatencyMs = %d, want 1500", call.LatencyMs)
		}
		if call.SessionID != "sess-1" {
			t.Errorf("SessionID = %q", call.SessionID)
		}
		if call.Provider != "gemini" {
			t.Errorf("Provider = %q", call.Provider)
		}
		if call.InputTokens != 120 || call.OutputTokens != 40 {
			t.Errorf("tokens = %d/%d, want 120/40", call.InputTokens, call.OutputTokens)
		}
		if call.Temperature == nil || *call.Temperature != 0.1 {
			t.Errorf("Temperature = %v", call.Temperature)
		}
		if call.Error != "" || call.ErrorType != "" {
			t.Errorf("error fields set on success: %q %q", call.ErrorType, call.Error)
		}
	})

	t.Run("failure", func(t *testing.T) {
		result := &providers.ChatResult{
			Provider:     "gemini",
			Success:      false,
			ErrorType:    providers.ErrTypeJSONParse,
			ErrorMessage: "no JSON found in response",
		}

		call := FromChatResult(result, RecordOptions{PromptKey: "k"})
		if call.Success {
			t.Error("Success = true")
		}
		if call.ErrorType != providers.ErrTypeJSONParse {
			t.Errorf("ErrorType = %q", call.ErrorType)
		}
		if call.Error != "no JSON found in response" {
			t.Errorf("Error = %q", call.Error)
		}
	})

	t.Run("nil result", func(t *testing.T) {
		if call := FromChatResult(nil, RecordOptions{}); call != nil {
			t.Errorf("FromChatResult(nil) = %v, want nil", call)
		}
	})
}

func TestLogCapacity(t *testing.T) {
	log := NewLog(3)
	for i := 0; i < 5; i++ {
		log.Record(&providers.ChatResult{
			Content:  fmt.Sprintf("response %d", i),
			Provider: "mock",
			Success:  true,
		}, RecordOptions{PromptKey: "k"})
	}

	if log.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", log.Len())
	}

	list := log.List()
	if list[0].Response != "response 4" {
		t.Errorf("newest entry = %q, want response 4", list[0].Response)
	}
	if list[2].Response != "response 2" {
		t.Errorf("oldest kept entry = %q, want response 2", list[2].Response)
	}
}

func TestLogGet(t *testing.T) {
	log := NewLog(0)
	stored := log.Record(&providers.ChatResult{Provider: "mock", Success: true}, RecordOptions{})

	got, ok := log.Get(stored.ID)
	if !ok {
		t.Fatal("Get() not found")
	}
	if got.ID != stored.ID {
		t.Errorf("Get() ID = %q, want %q", got.ID, stored.ID)
	}

	if _, ok := log.Get("missing"); ok {
		t.Error("Get(missing) = true")
	}
}

func TestLogRecordNil(t *testing.T) {
	log := NewLog(0)
	if call := log.Record(nil, RecordOptions{}); call != nil {
		t.Errorf("Record(nil) = %v", call)
	}
	if log.Len() != 0 {
		t.Errorf("Len() = %d after nil record", log.Len())
	}
}
