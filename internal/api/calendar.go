package api

import "context"

// Calendar fetches the combined sessions+plans aggregate for the month grid.
func (c *Client) Calendar(ctx context.Context) (CalendarData, error) {
	var out CalendarData
	if err := c.get(ctx, "/get-calendar/", true, &out); err != nil {
		return CalendarData{}, err
	}
	return out, nil
}

// Exercises fetches the pose catalog. No auth header is sent.
func (c *Client) Exercises(ctx context.Context) ([]Exercise, error) {
	var out []Exercise
	if err := c.get(ctx, "/get-exercises/", false, &out); err != nil {
		return nil, err
	}
	return out, nil
}
