package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizboard/internal/app"
	"quizboard/internal/infra/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := app.NewQuizService(
		memory.NewQuizStore(),
		memory.NewPlayerStore(),
		memory.NewResponseStore(),
		memory.NewResultsCache(0),
	)
	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSubmitAndResultsFlow(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/quizzes", map[string]any{
		"title": "Capitals",
		"type":  "quiz",
		"questions": []map[string]any{
			{"text": "Capital of France?", "options": []string{"Paris", "Lyon"}, "correctAnswer": 0, "timerSeconds": 30},
			{"text": "Capital of Spain?", "options": []string{"Seville", "Madrid"}, "correctAnswer": 1, "timerSeconds": 30},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create quiz: expected 201, got %d", resp.StatusCode)
	}
	var quiz struct {
		ID        string `json:"id"`
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	decode(t, resp, &quiz)

	resp = postJSON(t, server.URL+"/quizzes/"+quiz.ID+"/join", map[string]any{"name": "Alice"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("join: expected 201, got %d", resp.StatusCode)
	}
	var player struct {
		ID string `json:"id"`
	}
	decode(t, resp, &player)

	submission := map[string]any{
		"playerId": player.ID,
		"answers": []map[string]any{
			{"questionId": quiz.Questions[0].ID, "selectedOption": 0, "responseTime": 5},
			{"questionId": quiz.Questions[1].ID, "selectedOption": 1, "responseTime": 10},
		},
	}
	resp = postJSON(t, server.URL+"/quizzes/"+quiz.ID+"/submit", submission)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", resp.StatusCode)
	}
	var result struct {
		Score int `json:"score"`
	}
	decode(t, resp, &result)
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}

	// Second submission for the same player conflicts.
	resp = postJSON(t, server.URL+"/quizzes/"+quiz.ID+"/submit", submission)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate submit: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	httpResp, err := http.Get(server.URL + "/quizzes/" + quiz.ID + "/results")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("results: expected 200, got %d", httpResp.StatusCode)
	}
	var entries []struct {
		Player struct {
			Name string `json:"name"`
		} `json:"player"`
		Score          int     `json:"score"`
		TimeEfficiency string  `json:"timeEfficiency"`
		CombinedScore  float64 `json:"combinedScore"`
	}
	decode(t, httpResp, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Player.Name != "Alice" || entries[0].Score != 2 || entries[0].TimeEfficiency != "75.0%" {
		t.Fatalf("unexpected leaderboard entry: %+v", entries[0])
	}
}

func TestGetQuizHidesCorrectAnswers(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/quizzes", map[string]any{
		"title": "Quiz",
		"questions": []map[string]any{
			{"text": "q", "options": []string{"a", "b"}, "correctAnswer": 1},
		},
	})
	var quiz struct {
		ID string `json:"id"`
	}
	decode(t, resp, &quiz)

	httpResp, err := http.Get(server.URL + "/quizzes/" + quiz.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	var body map[string]any
	decode(t, httpResp, &body)
	questions, ok := body["questions"].([]any)
	if !ok || len(questions) != 1 {
		t.Fatalf("unexpected questions: %v", body["questions"])
	}
	if _, leaked := questions[0].(map[string]any)["correctAnswer"]; leaked {
		t.Fatalf("correct answer must not be exposed to players")
	}
}

func TestErrorStatuses(t *testing.T) {
	server := newTestServer(t)

	httpResp, err := http.Get(server.URL + "/quizzes/missing/results")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if httpResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing quiz, got %d", httpResp.StatusCode)
	}
	var errBody struct {
		Error string `json:"error"`
	}
	decode(t, httpResp, &errBody)
	if errBody.Error == "" {
		t.Fatalf("expected error message in body")
	}

	resp := postJSON(t, server.URL+"/quizzes", map[string]any{"title": "", "questions": []map[string]any{}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid quiz, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/quizzes/missing/join", map[string]any{"name": "Alice"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 joining missing quiz, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestResultsSerializesInfFastestAsNull(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/quizzes", map[string]any{
		"title": "Quiz",
		"questions": []map[string]any{
			{"text": "q", "options": []string{"a", "b"}, "correctAnswer": 0},
		},
	})
	var quiz struct {
		ID        string `json:"id"`
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	decode(t, resp, &quiz)

	resp = postJSON(t, server.URL+"/quizzes/"+quiz.ID+"/join", map[string]any{"name": "Alice"})
	var player struct {
		ID string `json:"id"`
	}
	decode(t, resp, &player)

	// No response times at all: fastestResponse has no data.
	resp = postJSON(t, server.URL+"/quizzes/"+quiz.ID+"/submit", map[string]any{
		"playerId": player.ID,
		"answers": []map[string]any{
			{"questionId": quiz.Questions[0].ID, "selectedOption": 0},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	httpResp, err := http.Get(server.URL + "/quizzes/" + quiz.ID + "/results")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	var entries []map[string]any
	decode(t, httpResp, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fastest, present := entries[0]["fastestResponse"]
	if !present || fastest != nil {
		t.Fatalf("expected fastestResponse null, got %v (present=%v)", fastest, present)
	}
}
