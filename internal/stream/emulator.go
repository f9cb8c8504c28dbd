// Package stream replays an already-complete backend result as the
// incremental SSE protocol of each API flavor. Generation finished before
// the first frame; the emulator only chunks and paces the final text.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sleepstars/modelgate/internal/logger"
	"github.com/sleepstars/modelgate/internal/models"
	"github.com/sleepstars/modelgate/internal/synthesizer"
)

// Emulator drives the timed replay loop. SliceWidth is the number of runes
// per delta event, Delay the pause between paced emissions.
type Emulator struct {
	SliceWidth int
	Delay      time.Duration
	logger     *logger.Logger
}

// NewEmulator returns an emulator with the given slice width and pacing
// delay. Non-positive widths fall back to the default of 4 runes.
func NewEmulator(sliceWidth int, delay time.Duration) *Emulator {
	if sliceWidth <= 0 {
		sliceWidth = 4
	}
	if delay < 0 {
		delay = 0
	}
	return &Emulator{
		SliceWidth: sliceWidth,
		Delay:      delay,
		logger:     logger.GetLogger().WithComponent("stream_emulator"),
	}
}

// FrameWriter delivers one complete SSE frame to the client. Implementations
// must flush each frame immediately and return an error once the peer has
// gone away.
type FrameWriter interface {
	WriteFrame(frame []byte) error
}

// writeEvent marshals one event and writes it as a data frame.
func writeEvent(w FrameWriter, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return w.WriteFrame([]byte("data: " + string(data) + "\n\n"))
}

// pace suspends between emissions, waking early when the request context is
// cancelled (client disconnect). It never blocks past Delay.
func (e *Emulator) pace(ctx context.Context) error {
	if e.Delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(e.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// slices cuts text into SliceWidth-rune pieces, preserving order.
func (e *Emulator) slices(text string) []string {
	runes := []rune(text)
	out := make([]string, 0, (len(runes)+e.SliceWidth-1)/e.SliceWidth)
	for cursor := 0; cursor < len(runes); cursor += e.SliceWidth {
		end := cursor + e.SliceWidth
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[cursor:end]))
	}
	return out
}

// PlayCompletion replays text as a chat.completion.chunk stream: one delta
// chunk per slice, a closing chunk with an empty delta and finish_reason
// "stop", then the [DONE] sentinel.
func (e *Emulator) PlayCompletion(ctx context.Context, w FrameWriter, model, text string) error {
	id := synthesizer.CompletionID()
	created := time.Now().Unix()

	chunk := func(delta models.ChatCompletionChunkDelta, finish *string) *models.ChatCompletionChunk {
		return &models.ChatCompletionChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   model,
			Choices: []models.ChatCompletionChunkChoice{
				{Index: 0, Delta: delta, FinishReason: finish},
			},
		}
	}

	for i, slice := range e.slices(text) {
		delta := models.ChatCompletionChunkDelta{Content: slice}
		if i == 0 {
			delta.Role = "assistant"
		}
		if err := writeEvent(w, chunk(delta, nil)); err != nil {
			e.logger.Debug("chat stream aborted: %v", err)
			return err
		}
		if err := e.pace(ctx); err != nil {
			return err
		}
	}

	stop := "stop"
	if err := writeEvent(w, chunk(models.ChatCompletionChunkDelta{}, &stop)); err != nil {
		return err
	}
	return w.WriteFrame([]byte("data: [DONE]\n\n"))
}

// PlayResponse replays text as the Responses API event lifecycle. usage is
// the backend's accounting when it reported any; nil selects the documented
// fallback of ceil(len(text)/SliceWidth) output tokens. Even empty text
// emits the full structural skeleton so the client never sees a dangling
// in_progress item.
func (e *Emulator) PlayResponse(ctx context.Context, w FrameWriter, model, text string, usage *models.Usage) error {
	respID := synthesizer.ResponseID()
	msgID := synthesizer.MessageID()
	created := time.Now().Unix()

	shell := synthesizer.NewResponseShell(respID, model, created, "in_progress")
	if err := writeEvent(w, &models.ResponseEvent{Type: "response.created", Response: shell}); err != nil {
		e.logger.Debug("responses stream aborted: %v", err)
		return err
	}

	if err := writeEvent(w, &models.OutputItemEvent{
		Type:        "response.output_item.added",
		OutputIndex: 0,
		Item: models.OutputItem{
			ID:      msgID,
			Type:    "message",
			Status:  "in_progress",
			Role:    "assistant",
			Content: []models.ContentPart{},
		},
	}); err != nil {
		return err
	}

	if err := writeEvent(w, &models.ContentPartEvent{
		Type:         "response.content_part.added",
		ItemID:       msgID,
		OutputIndex:  0,
		ContentIndex: 0,
		Part:         models.ContentPart{Type: "output_text", Text: ""},
	}); err != nil {
		return err
	}

	for _, slice := range e.slices(text) {
		if err := writeEvent(w, &models.OutputTextDeltaEvent{
			Type:         "response.output_text.delta",
			ItemID:       msgID,
			OutputIndex:  0,
			ContentIndex: 0,
			Delta:        slice,
		}); err != nil {
			e.logger.Debug("responses stream aborted: %v", err)
			return err
		}
		if err := e.pace(ctx); err != nil {
			return err
		}
	}

	if err := writeEvent(w, &models.OutputTextDoneEvent{
		Type:         "response.output_text.done",
		ItemID:       msgID,
		OutputIndex:  0,
		ContentIndex: 0,
		Text:         text,
	}); err != nil {
		return err
	}

	// Text was already delivered by output_text.done; the closing part event
	// carries an empty text field.
	if err := writeEvent(w, &models.ContentPartEvent{
		Type:         "response.content_part.done",
		ItemID:       msgID,
		OutputIndex:  0,
		ContentIndex: 0,
		Part:         models.ContentPart{Type: "output_text", Text: ""},
	}); err != nil {
		return err
	}

	finalItem := models.OutputItem{
		ID:     msgID,
		Type:   "message",
		Status: "completed",
		Role:   "assistant",
		Content: []models.ContentPart{
			{Type: "output_text", Text: text},
		},
	}
	if err := writeEvent(w, &models.OutputItemEvent{
		Type:        "response.output_item.done",
		OutputIndex: 0,
		Item:        finalItem,
	}); err != nil {
		return err
	}

	completed := synthesizer.NewResponseShell(respID, model, created, "completed")
	completed.Output = []models.OutputItem{finalItem}
	completed.Usage = e.finalUsage(text, usage)
	return writeEvent(w, &models.ResponseEvent{Type: "response.completed", Response: completed})
}

// finalUsage maps backend usage onto the responses counters, estimating
// output tokens from the slice count when the backend reported nothing.
func (e *Emulator) finalUsage(text string, usage *models.Usage) *models.ResponseUsage {
	if usage != nil {
		u := synthesizer.NormalizeUsage(*usage)
		return &models.ResponseUsage{
			InputTokens:  u.PromptTokens,
			OutputTokens: u.CompletionTokens,
			TotalTokens:  u.TotalTokens,
		}
	}
	outputTokens := (len([]rune(text)) + e.SliceWidth - 1) / e.SliceWidth
	return &models.ResponseUsage{
		InputTokens:  0,
		OutputTokens: outputTokens,
		TotalTokens:  outputTokens,
	}
}
