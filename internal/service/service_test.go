package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/tasket/internal/auth"
	"github.com/mmynk/tasket/internal/engine"
	"github.com/mmynk/tasket/internal/storage/memory"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := New(engine.New(memory.New()), auth.NewTokenManager("test-secret", 0))
	svc.Register(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func signUp(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/tasket/user", "", gin.H{"email": email, "password": "p"})
	if w.Code != http.StatusOK {
		t.Fatalf("signup returned %d: %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("signup response carried no token")
	}
	return token
}

func TestSignUpAndLogIn(t *testing.T) {
	r := newTestRouter()
	signUp(t, r, "a@x.com")

	t.Run("missing credentials", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user", "", gin.H{"email": "b@x.com"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		out := decode(t, w)
		if _, ok := out["errors"]; !ok {
			t.Errorf("expected errors envelope, got %v", out)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user", "", gin.H{"email": "a@x.com", "password": "q"})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Code)
		}
	})

	t.Run("login issues a fresh token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/login", "", gin.H{"email": "a@x.com", "password": "p"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if token, _ := decode(t, w)["token"].(string); token == "" {
			t.Error("login response carried no token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/login", "", gin.H{"email": "a@x.com", "password": "nope"})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter()

	t.Run("no token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/tasket/user", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/tasket/user", "not-a-token", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewTokenManager("other-secret", 0)
		token, err := other.Issue("someone")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		w := doJSON(t, r, http.MethodGet, "/tasket/user", token, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestGroupRoutes(t *testing.T) {
	r := newTestRouter()
	token := signUp(t, r, "a@x.com")

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group", token, gin.H{"name": "Math"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if msg, _ := decode(t, w)["message"].(string); msg != "Successfully created new group." {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("create without a name", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group", token, gin.H{"color": "#123456"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group", token, gin.H{"name": "Math"})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Code)
		}
	})

	t.Run("rename via update", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/tasket/user/group/Math", token,
			gin.H{"name": "Algebra", "color": "#00FF00"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, r, http.MethodGet, "/tasket/user", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		groups, _ := decode(t, w)["groups"].(map[string]any)
		if _, exists := groups["Math"]; exists {
			t.Error("old group key survived the rename")
		}
		algebra, _ := groups["Algebra"].(map[string]any)
		if algebra == nil {
			t.Fatal("renamed group missing from document")
		}
		if algebra["color"] != "#00FF00" {
			t.Errorf("expected renamed group color #00FF00, got %v", algebra["color"])
		}
	})

	t.Run("delete unknown group", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/tasket/user/group/Gym", token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestEventRoutes(t *testing.T) {
	r := newTestRouter()
	token := signUp(t, r, "a@x.com")
	if w := doJSON(t, r, http.MethodPost, "/tasket/user/group", token, gin.H{"name": "Math"}); w.Code != http.StatusOK {
		t.Fatalf("group setup failed: %d %s", w.Code, w.Body.String())
	}

	event := gin.H{
		"name":        "Quiz",
		"description": "Ch.1",
		"start_date":  "1000",
		"end_date":    "2000",
	}

	t.Run("create and read back", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group/Math/event", token, event)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, r, http.MethodGet, "/tasket/user", token, nil)
		groups := decode(t, w)["groups"].(map[string]any)
		math := groups["Math"].(map[string]any)
		events, _ := math["events"].([]any)
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		first := events[0].(map[string]any)
		if first["start_date"] != float64(1000) {
			t.Errorf("expected start_date 1000, got %v", first["start_date"])
		}
	})

	t.Run("missing field", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group/Math/event", token,
			gin.H{"name": "Quiz"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("non-numeric index", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/tasket/user/group/Math/event/first", token,
			gin.H{"name": "X"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("index past the end", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/tasket/user/group/Math/event/5", token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("delete compacts", func(t *testing.T) {
		w := doJSON(t, r, http.MethodDelete, "/tasket/user/group/Math/event/0", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, r, http.MethodGet, "/tasket/user", token, nil)
		groups := decode(t, w)["groups"].(map[string]any)
		math := groups["Math"].(map[string]any)
		if events, _ := math["events"].([]any); len(events) != 0 {
			t.Errorf("expected 0 events, got %d", len(events))
		}
	})
}

func TestAssignmentRoutes(t *testing.T) {
	r := newTestRouter()
	token := signUp(t, r, "a@x.com")
	if w := doJSON(t, r, http.MethodPost, "/tasket/user/group", token, gin.H{"name": "Math"}); w.Code != http.StatusOK {
		t.Fatalf("group setup failed: %d %s", w.Code, w.Body.String())
	}

	t.Run("invalid priority option", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group/Math/assignment", token, gin.H{
			"name":        "Homework",
			"description": "Problems 1-10",
			"start_date":  "1000",
			"end_date":    "2000",
			"priority":    "Urgent",
			"status":      "Incomplete",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("create then update status", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/tasket/user/group/Math/assignment", token, gin.H{
			"name":        "Homework",
			"description": "Problems 1-10",
			"start_date":  "1000",
			"end_date":    "2000",
			"priority":    "Low",
			"status":      "Incomplete",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, r, http.MethodPatch, "/tasket/user/group/Math/assignment/0", token,
			gin.H{"status": "Complete"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, r, http.MethodGet, "/tasket/user", token, nil)
		groups := decode(t, w)["groups"].(map[string]any)
		math := groups["Math"].(map[string]any)
		assignments := math["assignments"].([]any)
		if len(assignments) != 1 {
			t.Fatalf("expected 1 assignment, got %d", len(assignments))
		}
		first := assignments[0].(map[string]any)
		if first["status"] != "Complete" {
			t.Errorf("expected status Complete, got %v", first["status"])
		}
	})

	t.Run("update at an unpopulated index", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPatch, "/tasket/user/group/Math/assignment/2", token,
			gin.H{"priority": "High"})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}
