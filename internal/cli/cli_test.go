package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeAPI повторяет ответы mergington-api для двух занятий.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /activities", func(w http.ResponseWriter, r *http.Request) {
		// Порядок ключей намеренно не алфавитный
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Programming Class": {"description": "Learn programming", "schedule": "Tue", "max_participants": 20, "participants": ["emma@mergington.edu"]},
			"Chess Club": {"description": "Play chess", "schedule": "Fri", "max_participants": 12, "participants": []}
		}`))
	})
	mux.HandleFunc("GET /activities/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("name") != "Chess Club" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "Activity not found", "code": "NOT_FOUND"}`))
			return
		}
		w.Write([]byte(`{"name": "Chess Club", "description": "Play chess", "schedule": "Fri", "max_participants": 12, "participants": ["michael@mergington.edu"]}`))
	})
	mux.HandleFunc("POST /activities/{name}/signup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		email := r.URL.Query().Get("email")
		if email == "michael@mergington.edu" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": "Already signed up for this activity", "code": "BAD_REQUEST"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Signed up " + email + " for " + r.PathValue("name"),
		})
	})
	mux.HandleFunc("DELETE /activities/{name}/remove", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Removed " + r.URL.Query().Get("email") + " from " + r.PathValue("name"),
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ListActivitiesKeepsOrder(t *testing.T) {
	srv := fakeAPI(t)

	activities, err := NewClient(srv.URL).ListActivities()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].Name != "Programming Class" || activities[1].Name != "Chess Club" {
		t.Errorf("order not preserved: %s, %s", activities[0].Name, activities[1].Name)
	}
	if activities[0].FreeSpots() != 19 {
		t.Errorf("expected 19 free spots, got %d", activities[0].FreeSpots())
	}
}

func TestClient_SignUpEscapesNameAndEmail(t *testing.T) {
	srv := fakeAPI(t)

	msg, err := NewClient(srv.URL).SignUp("Chess Club", "new+tag@mergington.edu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Signed up new+tag@mergington.edu for Chess Club" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := fakeAPI(t)
	client := NewClient(srv.URL)

	_, err := client.SignUp("Chess Club", "michael@mergington.edu")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "BAD_REQUEST" {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if err.Error() != "BAD_REQUEST: Already signed up for this activity" {
		t.Errorf("unexpected message %q", err.Error())
	}

	_, err = client.GetActivity("Nope")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}

func TestAPIError_WithoutBody(t *testing.T) {
	err := &APIError{StatusCode: http.StatusBadGateway}
	if err.Error() != "API error: HTTP 502" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func runActivityCmd(t *testing.T, srv *httptest.Server, jsonMode bool, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewActivityCmd(
		func() *Client { return NewClient(srv.URL) },
		func() *Output { return NewOutputTo(jsonMode, &stdout, &stderr) },
	)
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestActivityList_Table(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := runActivityCmd(t, srv, false, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "Programming Class") || !strings.Contains(lines[2], "1/20") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestActivityList_JSON(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := runActivityCmd(t, srv, true, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var activities []ActivityResponse
	if err := json.Unmarshal([]byte(out), &activities); err != nil {
		t.Fatalf("expected JSON array, got %q", out)
	}
	if len(activities) != 2 {
		t.Errorf("expected 2 activities, got %d", len(activities))
	}
}

func TestActivityShow(t *testing.T) {
	srv := fakeAPI(t)

	out, info, err := runActivityCmd(t, srv, false, "show", "Chess Club")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "michael@mergington.edu") {
		t.Errorf("expected participant in output, got %q", out)
	}
	if !strings.Contains(info, "1/12") {
		t.Errorf("expected summary on stderr, got %q", info)
	}
}

func TestActivitySignupAndRemove(t *testing.T) {
	srv := fakeAPI(t)

	out, _, err := runActivityCmd(t, srv, false, "signup", "Chess Club", "--email", "new@mergington.edu")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if strings.TrimSpace(out) != "Signed up new@mergington.edu for Chess Club" {
		t.Errorf("unexpected output %q", out)
	}

	out, _, err = runActivityCmd(t, srv, true, "remove", "Chess Club", "--email", "new@mergington.edu")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("expected JSON output, got %q", out)
	}
	if body["message"] != "Removed new@mergington.edu from Chess Club" {
		t.Errorf("unexpected message %q", body["message"])
	}
}

func TestActivitySignup_RequiresEmail(t *testing.T) {
	srv := fakeAPI(t)

	if _, _, err := runActivityCmd(t, srv, false, "signup", "Chess Club"); err == nil {
		t.Error("expected error without --email")
	}
}
