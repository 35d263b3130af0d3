package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
)

// UpdateUserRequest edits the profile form fields.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UploadResult is the backend's answer to a picture upload.
type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &user, true); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateProfile edits username/email and returns the updated profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateUserRequest) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPut, "/user/profile", req, &user, true); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UploadProfilePicture sends an image as multipart form data under the "file"
// field and returns the stored URL.
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, content io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/profile/picture", &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	auth, err := c.tokens.Auth(ctx)
	if err != nil {
		return UploadResult{}, err
	}
	if !auth.Valid(time.Now()) {
		return UploadResult{}, domain.ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+auth.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadResult{}, c.statusError(resp)
	}
	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}

// DeleteProfilePicture removes the stored picture.
func (c *Client) DeleteProfilePicture(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/profile/picture", nil, nil, true)
}
