package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"baby-health-tracker/internal/domain/caregivers"
	"baby-health-tracker/internal/router"
)

func TestHTTP_EndToEnd_CaregiverScopes(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	parentID := "parent-1"
	grandmaID := "grandma-1"

	// 1) Parent registra bebé
	babyID := createBaby(t, ts.URL, parentID, map[string]any{
		"name":          "Lucía",
		"date_of_birth": "2024-01-01",
		"gender":        "female",
	})

	// 2) Abuela NO puede ver perfil aún
	{
		st, _ := doReq(t, ts.URL, "GET", "/babies/"+babyID, grandmaID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before grant, got %d", st)
		}
	}

	// 3) Parent invita con lectura + carga de mediciones
	grantID := inviteCaregiver(t, ts.URL, parentID, babyID, grandmaID, []string{
		string(caregivers.ScopeBabyRead),
		string(caregivers.ScopeVaccinesRead),
		string(caregivers.ScopeMeasurementsRead),
		string(caregivers.ScopeMeasurementsWrite),
	})

	// 4) Abuela ve su invitación y acepta
	{
		st, body := doReq(t, ts.URL, "GET", "/me/caregiving", grandmaID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), grantID) {
			t.Fatalf("expected invitation in /me/caregiving, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/caregivers/"+grantID+"/accept", grandmaID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 accept, got %d body=%s", st, string(body))
		}
	}

	// 5) Abuela ve el perfil; queda como último bebé visto
	{
		st, body := doReq(t, ts.URL, "GET", "/babies/"+babyID, grandmaID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get baby by caregiver, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/me/preferences/last_viewed_baby_id", grandmaID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), babyID) {
			t.Fatalf("expected last viewed baby, got %d body=%s", st, string(body))
		}
	}

	// 6) Listado de la abuela marca el rol
	{
		st, body := doReq(t, ts.URL, "GET", "/babies", grandmaID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list babies, got %d", st)
		}
		var list []struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		}
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 || list[0].ID != babyID || list[0].Role != "caregiver" {
			t.Fatalf("unexpected list: %s", string(body))
		}
	}

	// 7) Abuela NO puede editar (sin baby:edit)
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/babies/"+babyID, grandmaID, map[string]any{"name": "Lu"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 patch without baby:edit, got %d", st)
		}
	}

	// 8) Abuela carga una medición y la ve en el gráfico
	{
		st, body := doReq(t, ts.URL, "POST", "/babies/"+babyID+"/measurements", grandmaID, map[string]any{
			"type":  "weight",
			"value": 5.2,
			"date":  "2024-03-15",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 measurement, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/babies/"+babyID+"/measurements?type=weight", parentID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"recorded_by":"grandma-1"`) {
			t.Fatalf("expected measurement listed, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/babies/"+babyID+"/measurements/chart?type=weight&span=year", grandmaID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 chart, got %d body=%s", st, string(body))
		}
		var chart struct {
			Points []struct {
				Value *float64 `json:"value"`
			} `json:"points"`
		}
		_ = json.Unmarshal(body, &chart)
		if len(chart.Points) != 12 {
			t.Fatalf("expected 12 monthly points, got %d", len(chart.Points))
		}
	}

	// 9) Vacunas: abuela no agenda, parent sí; aplicar se refleja en el estado
	{
		st, _ := doReq(t, ts.URL, "POST", "/babies/"+babyID+"/vaccines/schedules", grandmaID, map[string]any{
			"vaccine_id": "dtap-1",
			"date":       "2024-02-20",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 schedule without vaccines:write, got %d", st)
		}

		scheduleID := scheduleVaccine(t, ts.URL, parentID, babyID, map[string]any{
			"vaccine_id": "dtap-1",
			"hospital":   "Hospital Central",
			"location":   "Montevideo",
			"date":       "2024-02-20",
		})
		st, body := doReq(t, ts.URL, "POST", "/babies/"+babyID+"/vaccines/schedules/"+scheduleID+"/administer", parentID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 administer, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/babies/"+babyID+"/vaccines/schedules", grandmaID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"is_administered":true`) {
			t.Fatalf("expected administered schedule, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/babies/"+babyID+"/vaccines/status?today=2024-04-01", grandmaID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 status, got %d body=%s", st, string(body))
		}
		var status struct {
			Counts map[string]int `json:"counts"`
		}
		_ = json.Unmarshal(body, &status)
		if status.Counts["administered"] != 1 || status.Counts["overdue"] == 0 {
			t.Fatalf("unexpected counts: %v", status.Counts)
		}
	}

	// 10) Parent revoca; la abuela pierde acceso al toque
	{
		st, body := doReq(t, ts.URL, "POST", "/caregivers/"+grantID+"/revoke", parentID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoke, got %d body=%s", st, string(body))
		}
	}
	for _, path := range []string{
		"/babies/" + babyID,
		"/babies/" + babyID + "/measurements",
		"/babies/" + babyID + "/vaccines/status",
	} {
		st, _ := doReq(t, ts.URL, "GET", path, grandmaID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 %s after revoke, got %d", path, st)
		}
	}
}

func TestHTTP_InviteCaregiver_RejectsUnknownScope(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	babyID := createBaby(t, ts.URL, "parent-1", map[string]any{
		"name":          "Tomás",
		"date_of_birth": "2024-03-30",
	})

	// scope inválido => 400
	st, _ := doReq(t, ts.URL, "POST", "/babies/"+babyID+"/caregivers", "parent-1", map[string]any{
		"caregiver_user_id": "nanny-1",
		"scopes":            []string{"baby:read", "baby:delete"},
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown scope, got %d", st)
	}
}

func TestHTTP_PublicEndpoints(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, body := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, string(body))
	}
	if st, body := doReq(t, ts.URL, "GET", "/vaccines", "", nil); st != http.StatusOK || !strings.Contains(string(body), `"bcg"`) {
		t.Fatalf("catalog: %d %s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil); st != http.StatusOK {
		t.Fatalf("swagger doc: %d", st)
	}
	// sin gateway configurado
	if st, _ := doReq(t, ts.URL, "POST", "/auth/signin", "", map[string]any{"email": "a@b.c", "password": "secret1"}); st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 signin without gateway, got %d", st)
	}
	// sin usuario
	if st, _ := doReq(t, ts.URL, "GET", "/babies", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}
}

func createBaby(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/babies", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create baby, got %d body=%s", st, string(body))
	}
	return idFrom(t, body)
}

func inviteCaregiver(t *testing.T, baseURL, parentID, babyID, caregiverID string, scopes []string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/babies/"+babyID+"/caregivers", parentID, map[string]any{
		"caregiver_user_id": caregiverID,
		"scopes":            scopes,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 invite caregiver, got %d body=%s", st, string(body))
	}
	return idFrom(t, body)
}

func scheduleVaccine(t *testing.T, baseURL, userID, babyID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/babies/"+babyID+"/vaccines/schedules", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 schedule vaccine, got %d body=%s", st, string(body))
	}
	return idFrom(t, body)
}

func idFrom(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
