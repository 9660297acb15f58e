package api

import "context"

// JournalEntries fetches the reflection history.
func (c *Client) JournalEntries(ctx context.Context) ([]JournalEntry, error) {
	var out []JournalEntry
	if err := c.get(ctx, "/get-journal-entries/", true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddJournalEntry submits one reflection. Sentiment is computed server-side.
func (c *Client) AddJournalEntry(ctx context.Context, entry string) error {
	payload := struct {
		Entry string `json:"entry"`
	}{entry}
	return c.postJSON(ctx, "/add-journal-entry/", true, payload, nil)
}
