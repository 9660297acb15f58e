package api

import "context"

// Chat sends the full running conversation and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, chatID string, messages []ChatMessage) (string, error) {
	payload := struct {
		ChatID   string        `json:"chat_id"`
		Messages []ChatMessage `json:"messages"`
	}{chatID, messages}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.postJSON(ctx, "/chat-gemini/", true, payload, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Ask sends a single standalone query outside a running conversation.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	payload := struct {
		Query string `json:"query"`
	}{query}
	var out struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/ask-gemini/", true, payload, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// EndChat closes the conversation identified by chatID on the backend.
func (c *Client) EndChat(ctx context.Context, chatID string) error {
	payload := struct {
		ChatID string `json:"chat_id"`
	}{chatID}
	return c.postJSON(ctx, "/end-chat/", true, payload, nil)
}

// CoachHistory fetches stored consultations, newest first.
func (c *Client) CoachHistory(ctx context.Context) ([]ChatRecord, error) {
	var out []ChatRecord
	if err := c.get(ctx, "/get-coach-history/", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chats is the alternate history mount some backend deployments expose.
func (c *Client) Chats(ctx context.Context) ([]ChatRecord, error) {
	var out []ChatRecord
	if err := c.get(ctx, "/get-chats/", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApprovePlan schedules the extracted plan items onto the calendar.
func (c *Client) ApprovePlan(ctx context.Context, items []PlanItem) error {
	payload := struct {
		Plans []PlanItem `json:"plans"`
	}{items}
	return c.postJSON(ctx, "/approve-plan/", true, payload, nil)
}
