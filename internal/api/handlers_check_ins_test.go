package api

import (
	"net/http"
	"strings"
	"testing"
)

type checkInBody struct {
	CheckIn struct {
		Status          string   `json:"status"`
		PainLevel       int      `json:"pain_level"`
		Mood            int      `json:"mood"`
		OverallWellness int      `json:"overall_wellness"`
		RedFlags        []string `json:"red_flags"`
		EmergencyAlert  bool     `json:"emergency_alert"`
		NeedsFollowUp   bool     `json:"needs_follow_up"`
	} `json:"check_in"`
	Flags *flagSetView `json:"flags"`
}

func TestCheckInRoutesRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)

	raw := env.expect(t, http.MethodGet, "/api/checkins/2026-04-02", "", "", http.StatusUnauthorized)
	body := decodeJSON[errorBody](t, raw)
	if body.Code != "unauthorized" || body.Error != "Authentication required" {
		t.Fatalf("unexpected unauthorized body: %#v", body)
	}

	env.expect(t, http.MethodGet, "/api/checkins/2026-04-02", "not-a-token", "", http.StatusUnauthorized)
}

func TestCheckInSectionUpdateAndFinalizeFlow(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "flow@example.com")

	raw := env.expect(t, http.MethodGet, "/api/checkins/2026-04-02", token, "", http.StatusOK)
	empty := decodeJSON[checkInBody](t, raw)
	if empty.CheckIn.Status != "draft" || empty.Flags != nil {
		t.Fatalf("expected empty draft without flags, got %#v", empty)
	}

	env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/physical", token, `{"pain_level":9,"symptoms":["headache"]}`, http.StatusOK)
	raw = env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/mental", token, `{"mood":7}`, http.StatusOK)
	draft := decodeJSON[checkInBody](t, raw)
	if draft.CheckIn.PainLevel != 9 || draft.CheckIn.Mood != 7 {
		t.Fatalf("expected sections to merge, got %#v", draft.CheckIn)
	}

	raw = env.expect(t, http.MethodPost, "/api/checkins/2026-04-02/finalize?lang=ru", token, "", http.StatusOK)
	finalized := decodeJSON[checkInBody](t, raw)
	if finalized.CheckIn.Status != "finalized" || !finalized.CheckIn.EmergencyAlert || !finalized.CheckIn.NeedsFollowUp {
		t.Fatalf("unexpected finalized check-in: %#v", finalized.CheckIn)
	}
	if finalized.CheckIn.OverallWellness < 1 || finalized.CheckIn.OverallWellness > 10 {
		t.Fatalf("overall wellness out of range: %d", finalized.CheckIn.OverallWellness)
	}
	if finalized.Flags == nil || len(finalized.Flags.Red) == 0 {
		t.Fatalf("expected localized red flags, got %#v", finalized.Flags)
	}
	if finalized.Flags.Red[0].Code != "severe_pain" || finalized.Flags.Red[0].Message != "Сильная боль" {
		t.Fatalf("expected russian severe pain flag, got %#v", finalized.Flags.Red[0])
	}
	if len(finalized.CheckIn.RedFlags) == 0 || finalized.CheckIn.RedFlags[0] != "Severe pain reported" {
		t.Fatalf("expected stored flags to keep canonical messages, got %v", finalized.CheckIn.RedFlags)
	}

	raw = env.expect(t, http.MethodGet, "/api/checkins/2026-04-02", token, "", http.StatusOK)
	stored := decodeJSON[checkInBody](t, raw)
	if stored.Flags == nil || len(stored.Flags.Red) == 0 {
		t.Fatal("expected finalized check-in to carry flags on read")
	}

	raw = env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/mental", token, `{"mood":2}`, http.StatusConflict)
	if decodeJSON[errorBody](t, raw).Code != "check_in_finalized" {
		t.Fatalf("unexpected conflict body: %s", raw)
	}
	env.expect(t, http.MethodPost, "/api/checkins/2026-04-02/finalize", token, "", http.StatusConflict)

	raw = env.expect(t, http.MethodGet, "/api/progress?from=2026-04-01&to=2026-04-02", token, "", http.StatusOK)
	if !strings.Contains(raw, `"date"`) {
		t.Fatalf("expected one progress point, got %s", raw)
	}

	raw = env.expect(t, http.MethodGet, "/api/checkins?from=2026-04-01&to=2026-04-03", token, "", http.StatusOK)
	listed := decodeJSON[[]map[string]any](t, raw)
	if len(listed) != 1 {
		t.Fatalf("expected one listed check-in, got %d", len(listed))
	}
}

func TestCheckInSectionValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "validation@example.com")

	raw := env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/unknown", token, `{}`, http.StatusNotFound)
	if decodeJSON[errorBody](t, raw).Code != "invalid_section" {
		t.Fatalf("unexpected body: %s", raw)
	}

	raw = env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/medication", token, `{"adherence":"mostly"}`, http.StatusBadRequest)
	if decodeJSON[errorBody](t, raw).Code != "invalid_adherence_category" {
		t.Fatalf("unexpected body: %s", raw)
	}

	raw = env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/sleep", token, `{"quality":`, http.StatusBadRequest)
	if decodeJSON[errorBody](t, raw).Code != "invalid_payload" {
		t.Fatalf("unexpected body: %s", raw)
	}

	raw = env.expect(t, http.MethodGet, "/api/checkins/02-04-2026", token, "", http.StatusBadRequest)
	if decodeJSON[errorBody](t, raw).Code != "invalid_day" {
		t.Fatalf("unexpected body: %s", raw)
	}

	raw = env.expect(t, http.MethodGet, "/api/checkins?from=2026-04-10&to=2026-04-01", token, "", http.StatusBadRequest)
	if decodeJSON[errorBody](t, raw).Code != "invalid_range" {
		t.Fatalf("unexpected body: %s", raw)
	}
}

func TestCheckInsAreScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.createUser(t, "owner@example.com")
	_, otherToken := env.createUser(t, "other@example.com")

	env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/mental", ownerToken, `{"mood":9}`, http.StatusOK)

	raw := env.expect(t, http.MethodGet, "/api/checkins/2026-04-02", otherToken, "", http.StatusOK)
	if decodeJSON[checkInBody](t, raw).CheckIn.Mood != 0 {
		t.Fatalf("expected other user to see an empty draft, got %s", raw)
	}
}

func TestErrorMessagesFollowAcceptLanguage(t *testing.T) {
	env := newTestEnv(t)

	status, raw := env.do(t, http.MethodGet, "/api/checkins/2026-04-02", "", "", "Accept-Language", "ru-RU,ru;q=0.9")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if decodeJSON[errorBody](t, raw).Error != "Требуется авторизация" {
		t.Fatalf("expected russian error message, got %s", raw)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	raw := env.expect(t, http.MethodGet, "/healthz", "", "", http.StatusOK)
	if !strings.Contains(raw, `"ok"`) {
		t.Fatalf("unexpected health body: %s", raw)
	}
	env.expect(t, http.MethodGet, "/missing", "", "", http.StatusNotFound)
}

func TestRebuildProgressAndVocabulary(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "rebuild@example.com")

	env.expect(t, http.MethodPost, "/api/checkins/2026-04-01/finalize", token, "", http.StatusOK)
	env.expect(t, http.MethodPut, "/api/checkins/2026-04-02/mental", token, `{"mood":6}`, http.StatusOK)

	raw := env.expect(t, http.MethodPost, "/api/progress/rebuild?from=2026-04-01&to=2026-04-02", token, "", http.StatusOK)
	if decodeJSON[map[string]int](t, raw)["rebuilt"] != 1 {
		t.Fatalf("expected one rebuilt point, got %s", raw)
	}

	raw = env.expect(t, http.MethodGet, "/api/checkins/vocabulary", token, "", http.StatusOK)
	vocabulary := decodeJSON[map[string][]string](t, raw)
	if len(vocabulary["symptoms"]) == 0 || len(vocabulary["emotional_states"]) == 0 {
		t.Fatalf("unexpected vocabulary: %s", raw)
	}
}
