package api

import (
	"context"
	"io"
)

// Sessions fetches the practice history, newest first.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := c.get(ctx, "/get-sessions/", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeSession uploads a practice video for pose analysis.
func (c *Client) AnalyzeSession(ctx context.Context, fileName string, file io.Reader) (AnalysisOutcome, error) {
	var out AnalysisOutcome
	if err := c.postForm(ctx, "/analyze-session/", true, nil, "file", fileName, file, &out); err != nil {
		return AnalysisOutcome{}, err
	}
	return out, nil
}

// SubmitFeedback attaches free-form feedback to a completed session.
func (c *Client) SubmitFeedback(ctx context.Context, sessionID int, text string) error {
	payload := struct {
		SessionID    int    `json:"sessionId"`
		FeedbackText string `json:"feedback_text"`
	}{sessionID, text}
	return c.postJSON(ctx, "/feedback/", true, payload, nil)
}

// Streak fetches the backend-computed consecutive-day practice count.
func (c *Client) Streak(ctx context.Context) (int, error) {
	var out struct {
		Streak int `json:"streak"`
	}
	if err := c.get(ctx, "/get-streak/", true, &out); err != nil {
		return 0, err
	}
	return out.Streak, nil
}
