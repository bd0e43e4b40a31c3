package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// ActivityResponse — занятие из API.
type ActivityResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// FreeSpots — свободные места (может быть отрицательным).
func (a ActivityResponse) FreeSpots() int {
	return a.MaxParticipants - len(a.Participants)
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// APIError — ошибка, которую вернул сервер.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// --- Client ---

// Client — HTTP-клиент для Mergington API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Activities ---

// ListActivities возвращает все занятия в порядке сервера.
func (c *Client) ListActivities() ([]ActivityResponse, error) {
	resp, err := c.do(http.MethodGet, "/activities")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	activities, err := decodeActivities(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return activities, nil
}

// GetActivity возвращает занятие по имени.
func (c *Client) GetActivity(name string) (*ActivityResponse, error) {
	var activity ActivityResponse
	err := c.doJSON(http.MethodGet, activityPath(name), &activity)
	return &activity, err
}

// SignUp записывает email на занятие. Возвращает сообщение сервера.
func (c *Client) SignUp(name, email string) (string, error) {
	var msg messageResponse
	err := c.doJSON(http.MethodPost, activityPath(name)+"/signup?"+emailQuery(email), &msg)
	return msg.Message, err
}

// Remove удаляет email из занятия. Возвращает сообщение сервера.
func (c *Client) Remove(name, email string) (string, error) {
	var msg messageResponse
	err := c.doJSON(http.MethodDelete, activityPath(name)+"/remove?"+emailQuery(email), &msg)
	return msg.Message, err
}

func activityPath(name string) string {
	return "/activities/" + url.PathEscape(name)
}

func emailQuery(email string) string {
	return url.Values{"email": {email}}.Encode()
}

// decodeActivities читает объект имя → детали, сохраняя порядок ключей.
func decodeActivities(r io.Reader) ([]ActivityResponse, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected JSON object")
	}

	var activities []ActivityResponse
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var activity ActivityResponse
		if err := dec.Decode(&activity); err != nil {
			return nil, fmt.Errorf("activity %q: %w", name, err)
		}
		activity.Name = name
		activities = append(activities, activity)
	}
	return activities, nil
}

// --- HTTP helpers ---

func (c *Client) doJSON(method, path string, result any) error {
	resp, err := c.do(method, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(method, path string) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
		apiErr.Code = er.Code
		apiErr.Detail = er.Detail
	}
	return apiErr
}
