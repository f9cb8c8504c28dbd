package integration

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sleepstars/modelgate/internal/backend"
	"github.com/sleepstars/modelgate/internal/config"
	"github.com/sleepstars/modelgate/internal/server"
)

// startStubBackend serves the prompt-in/text-out contract, recording the
// last model and prompt it was called with.
func startStubBackend(t *testing.T, text string, promptTokens, completionTokens int) (*httptest.Server, *struct{ Model, Prompt string }) {
	t.Helper()
	called := &struct{ Model, Prompt string }{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		called.Model = strings.TrimPrefix(r.URL.Path, "/")
		called.Prompt = req.Prompt

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"response": text}
		if promptTokens > 0 || completionTokens > 0 {
			resp["usage"] = map[string]int{
				"prompt_tokens":     promptTokens,
				"completion_tokens": completionTokens,
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, called
}

func startGateway(t *testing.T, backendURL string) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Stream.PacingMs = 1
	cfg.Backend = config.BackendConfig{
		Kind:    config.BackendWorkersAI,
		APIBase: backendURL,
	}

	runner, err := backend.New(cfg.Backend)
	require.NoError(t, err)

	srv := httptest.NewServer(server.New(cfg, runner).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGatewayChatCompletions(t *testing.T) {
	stub, called := startStubBackend(t, "hello", 1, 1)
	gw := startGateway(t, stub.URL)

	resp := postJSON(t, gw.URL+"/v1/chat/completions",
		`{"model":"gpt-3.5-turbo","messages":[{"role":"system","content":"a"},{"role":"user","content":"b"}],"stream":false}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc struct {
		Object  string `json:"object"`
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))

	assert.Equal(t, "chat.completion", doc.Object)
	assert.Equal(t, "gpt-3.5-turbo", doc.Model)
	require.Len(t, doc.Choices, 1)
	assert.Equal(t, "assistant", doc.Choices[0].Message.Role)
	assert.Equal(t, "hello", doc.Choices[0].Message.Content)
	assert.Equal(t, "stop", doc.Choices[0].FinishReason)
	assert.Equal(t, 2, doc.Usage.TotalTokens)

	// The backend saw the resolved model and the compiled conversation.
	assert.Equal(t, "@cf/meta/llama-3.1-8b-instruct", called.Model)
	assert.Equal(t, "[System]\na\n\n[User]\nb", called.Prompt)
}

func TestGatewayResponsesStreaming(t *testing.T) {
	stub, _ := startStubBackend(t, "hello world", 0, 0)
	gw := startGateway(t, stub.URL)

	resp := postJSON(t, gw.URL+"/v1/responses", `{"model":"gpt-4o","input":"hi","stream":true}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var types []string
	var deltas strings.Builder
	var doneText string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		ev := gjson.Parse(strings.TrimPrefix(line, "data: "))
		types = append(types, ev.Get("type").String())
		switch ev.Get("type").String() {
		case "response.output_text.delta":
			deltas.WriteString(ev.Get("delta").String())
		case "response.output_text.done":
			doneText = ev.Get("text").String()
		}
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, []string{
		"response.created",
		"response.output_item.added",
		"response.content_part.added",
		"response.output_text.delta",
		"response.output_text.delta",
		"response.output_text.delta",
		"response.output_text.done",
		"response.content_part.done",
		"response.output_item.done",
		"response.completed",
	}, types)
	assert.Equal(t, "hello world", deltas.String())
	assert.Equal(t, "hello world", doneText)
}

func TestGatewayResponsesUsageFallback(t *testing.T) {
	stub, _ := startStubBackend(t, "hello world", 0, 0)
	gw := startGateway(t, stub.URL)

	resp := postJSON(t, gw.URL+"/v1/responses", `{"model":"gpt-4o","input":"hi","stream":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var completed gjson.Result
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		ev := gjson.Parse(strings.TrimPrefix(line, "data: "))
		if ev.Get("type").String() == "response.completed" {
			completed = ev
		}
	}
	require.NoError(t, scanner.Err())
	require.True(t, completed.Exists())

	// 11 runes / default width 4 -> 3 output tokens.
	assert.Equal(t, int64(3), completed.Get("response.usage.output_tokens").Int())
	assert.Equal(t, int64(3), completed.Get("response.usage.total_tokens").Int())
}

func TestGatewayChatStreaming(t *testing.T) {
	stub, _ := startStubBackend(t, "streamed reply", 2, 4)
	gw := startGateway(t, stub.URL)

	resp := postJSON(t, gw.URL+"/v1/chat/completions",
		`{"model":"gpt-4","messages":[{"role":"user","content":"hi"}],"stream":true}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var content strings.Builder
	sawDone := false
	sawStop := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			sawDone = true
			continue
		}
		chunk := gjson.Parse(data)
		content.WriteString(chunk.Get("choices.0.delta.content").String())
		if chunk.Get("choices.0.finish_reason").String() == "stop" {
			sawStop = true
		}
	}
	require.NoError(t, scanner.Err())

	assert.Equal(t, "streamed reply", content.String())
	assert.True(t, sawStop)
	assert.True(t, sawDone)
}

func TestGatewayClientDisconnect(t *testing.T) {
	stub, _ := startStubBackend(t, strings.Repeat("long text ", 200), 0, 0)

	cfg := config.DefaultConfig()
	cfg.Stream.PacingMs = 20
	cfg.Backend = config.BackendConfig{Kind: config.BackendWorkersAI, APIBase: stub.URL}
	runner, err := backend.New(cfg.Backend)
	require.NoError(t, err)
	gw := httptest.NewServer(server.New(cfg, runner).Handler())
	t.Cleanup(gw.Close)

	resp, err := http.Post(gw.URL+"/v1/responses", "application/json",
		strings.NewReader(`{"model":"gpt-4o","input":"hi","stream":true}`))
	require.NoError(t, err)

	// Read a couple of frames, then hang up mid-stream. The replay loop must
	// notice and stop; nothing to assert beyond the server staying healthy.
	scanner := bufio.NewScanner(resp.Body)
	for i := 0; i < 3 && scanner.Scan(); i++ {
	}
	resp.Body.Close()

	time.Sleep(50 * time.Millisecond)
	health, err := http.Get(gw.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestGatewayValidationAndErrors(t *testing.T) {
	stub, _ := startStubBackend(t, "unused", 0, 0)
	gw := startGateway(t, stub.URL)

	testCases := []struct {
		name       string
		path       string
		body       string
		expectCode int
		expectType string
	}{
		{
			name:       "chat without messages",
			path:       "/v1/chat/completions",
			body:       `{"model":"gpt-4"}`,
			expectCode: http.StatusBadRequest,
			expectType: "invalid_request_error",
		},
		{
			name:       "responses without input",
			path:       "/v1/responses",
			body:       `{"model":"gpt-4o"}`,
			expectCode: http.StatusBadRequest,
			expectType: "invalid_request_error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, gw.URL+tc.path, tc.body)
			assert.Equal(t, tc.expectCode, resp.StatusCode)

			var envelope struct {
				Error struct {
					Type string `json:"type"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			assert.Equal(t, tc.expectType, envelope.Error.Type)
		})
	}
}

func TestGatewayBackendDown(t *testing.T) {
	stub, _ := startStubBackend(t, "unused", 0, 0)
	gw := startGateway(t, stub.URL)
	stub.Close()

	resp := postJSON(t, gw.URL+"/v1/chat/completions",
		`{"model":"gpt-4","messages":[{"role":"user","content":"hi"}]}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal_error", gjsonBody(t, resp).Get("error.type").String())
}

func gjsonBody(t *testing.T, resp *http.Response) gjson.Result {
	t.Helper()
	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return gjson.Parse(sb.String())
}
