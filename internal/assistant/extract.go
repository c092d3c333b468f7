package assistant

import (
	"encoding/json"
	"fmt"
)

// responseTextKeys is the priority order in which a non-streaming response
// object is probed for the generated text.
var responseTextKeys = []string{"llm_response", "contract", "text", "content", "result", "message"}

// ExtractText pulls the document text out of a non-streaming assistant
// response. The first present string under the recognized keys wins; a bare
// JSON string at the top level is accepted as-is. Absence of any recognized
// field is a fatal error for the call.
func ExtractText(raw []byte) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("assistant response is not valid JSON: %w", err)
	}

	switch resp := v.(type) {
	case string:
		return resp, nil
	case map[string]any:
		for _, key := range responseTextKeys {
			if s, ok := resp[key].(string); ok {
				return s, nil
			}
		}
	}
	return "", ErrNoResponseText
}

// answerBody unwraps the {"data": {"answer_body": ...}} envelope the
// historical upstream deployment wraps its query responses in.
func answerBody(raw []byte) (string, bool) {
	var envelope struct {
		Data struct {
			AnswerBody *string `json:"answer_body"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", false
	}
	if envelope.Data.AnswerBody == nil {
		return "", false
	}
	return *envelope.Data.AnswerBody, true
}
