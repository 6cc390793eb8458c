// Command genai-stub is an offline OpenAI-compatible server answering the
// two prompt shapes the pipeline sends: the metadata fallback summary for
// videos and the vision transcription for images. Point LLM_BASE_URL at it
// to run the full pipeline without credentials or network egress.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text prompts and a parts array for
	// vision prompts, so it stays raw until inspected.
	Content json.RawMessage `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// messageText flattens either content encoding into the text it carries.
func messageText(m chatMessage) string {
	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(m.Content, &parts); err == nil {
		var sb strings.Builder
		for _, p := range parts {
			if p.Type == "text" {
				sb.WriteString(p.Text)
			}
		}
		return sb.String()
	}
	return ""
}

// metadataField pulls one "Key: value" line out of the fallback prompt.
func metadataField(prompt, key string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), key+": "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompt := ""
		if len(req.Messages) > 0 {
			prompt = messageText(req.Messages[0])
		}
		var content string
		switch {
		case strings.Contains(prompt, "caption track"):
			title := metadataField(prompt, "Title")
			if title == "" {
				title = "an untitled video"
			}
			channel := metadataField(prompt, "Channel")
			content = fmt.Sprintf("Judging from its metadata, %q", title)
			if channel != "" {
				content += fmt.Sprintf(" from the channel %s", channel)
			}
			content += " most likely walks through its topic step by step, introducing the key terms first and closing with a short recap."
		case strings.Contains(prompt, "Transcribe all text"):
			content = "Quarterly revenue chart. Q1: 1.2M, Q2: 1.4M, Q3: 1.9M. The vertical axis shows revenue in millions, the horizontal axis the quarter."
		default:
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 64, "completion_tokens": 32},
		})
	})

	log.Printf("genai-stub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
