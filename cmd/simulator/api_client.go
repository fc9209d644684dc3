package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

type RatedMovie struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MovieID     int64     `json:"movieId"`
	MovieTitle  string    `json:"movieTitle"`
	Rating      *int      `json:"rating"`
	WatchStatus string    `json:"watchStatus"`
	UserName    string    `json:"userName"`
	Comments    []Comment `json:"comments"`
}

type Comment struct {
	Comment   string    `json:"comment"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

type MovieComment struct {
	UserID    string    `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterUser creates a new account with a unique name and email
func (c *APIClient) RegisterUser(baseName string) (*User, error) {
	suffix := time.Now().UnixNano() % 100000
	name := fmt.Sprintf("%s_%d", baseName, suffix)

	body := map[string]string{
		"name":     name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"password": "testpassword123",
	}

	resp, err := c.post("/users", body, "")
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("register failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}

// RateMovie creates or updates the user's record for a movie
func (c *APIClient) RateMovie(user *User, movieID int64, title string, rating int, status string) (*RatedMovie, error) {
	body := map[string]interface{}{
		"movieId":     movieID,
		"movieTitle":  title,
		"rating":      rating,
		"watchStatus": status,
		"userName":    user.Name,
	}

	resp, err := c.put("/users/"+user.ID, body)
	if err != nil {
		return nil, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rate failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var movie RatedMovie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &movie, nil
}

// AddComment appends a comment to the user's record for a movie
func (c *APIClient) AddComment(user *User, movieID int64, title, text string) error {
	body := map[string]string{
		"userId":     user.ID,
		"comment":    text,
		"userName":   user.Name,
		"movieTitle": title,
	}

	resp, err := c.put(fmt.Sprintf("/comments/%d", movieID), body)
	if err != nil {
		return fmt.Errorf("comment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("comment failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

// GetComments fetches every comment left on a movie
func (c *APIClient) GetComments(movieID int64) ([]MovieComment, error) {
	var comments []MovieComment
	if err := c.getJSON(fmt.Sprintf("/comments/%d", movieID), &comments); err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	return comments, nil
}

// GetMatches lists movies both users have watched
func (c *APIClient) GetMatches(userID, friendID string) ([]RatedMovie, error) {
	var movies []RatedMovie
	if err := c.getJSON("/movies/"+userID+"?friend="+friendID, &movies); err != nil {
		return nil, fmt.Errorf("get matches: %w", err)
	}
	return movies, nil
}

// HTTP helpers

func (c *APIClient) getJSON(path string, dst interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	req, err := c.newJSONRequest(http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

func (c *APIClient) put(path string, body interface{}) (*http.Response, error) {
	req, err := c.newJSONRequest(http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}

	return c.httpClient.Do(req)
}

func (c *APIClient) newJSONRequest(method, path string, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
