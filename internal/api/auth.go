package api

import "context"

// Register creates a new account. Unauthenticated, JSON body.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	payload := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{username, email, password}
	return c.postJSON(ctx, "/auth/register", false, payload, nil)
}

// Token exchanges credentials for an access token. The backend expects the
// credentials as multipart form fields, not JSON.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	fields := map[string]string{"username": username, "password": password}
	if err := c.postForm(ctx, "/auth/token", false, fields, "", "", nil, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
