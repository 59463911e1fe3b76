package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"ong-shelter-api/internal/router"
)

func TestHTTP_EndToEnd_AdoptionLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	staffID := "staff-1"

	// 1) Staff registra un animal
	dogID := createDog(t, ts.URL, staffID, map[string]any{
		"name":        "Thor",
		"age":         "2 anos",
		"size":        "medium",
		"gender":      "male",
		"animalType":  "dog",
		"description": "Muito brincalhão e dócil com crianças.",
		"temperament": "dócil, brincalhão",
		"vaccinated":  true,
		"images":      []string{"https://cdn/thor-1.jpg", "https://cdn/thor-2.jpg"},
	})

	// 2) El catálogo público lo lista como disponible
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing dogs, got %d body=%s", st, string(body))
		}
		var resp struct {
			Dogs []struct {
				ID        int64 `json:"id"`
				Available bool  `json:"available"`
			} `json:"dogs"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Dogs) != 1 || !resp.Dogs[0].Available {
			t.Fatalf("expected one available dog, body=%s", string(body))
		}
	}

	// 3) Un visitante postula; el teléfono se normaliza a dígitos
	adoptionID := submitAdoption(t, ts.URL, dogID, "(11) 98888-7777")

	// 4) Sin auth no se ve el panel de solicitudes
	{
		st, _ := doReq(t, ts.URL, "GET", "/adoptions", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 listing adoptions without auth, got %d", st)
		}
	}

	// 5) Staff ve la solicitud pending con la vista del animal
	{
		st, body := doReq(t, ts.URL, "GET", "/adoptions", staffID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing adoptions, got %d body=%s", st, string(body))
		}
		var resp struct {
			Adoptions []struct {
				ID     int64  `json:"id"`
				Status string `json:"status"`
				Phone  string `json:"phone"`
				Dog    *struct {
					Name string `json:"name"`
				} `json:"dog"`
			} `json:"adoptions"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Adoptions) != 1 {
			t.Fatalf("expected one adoption, body=%s", string(body))
		}
		a := resp.Adoptions[0]
		if a.Status != "pending" {
			t.Fatalf("expected pending, got %s", a.Status)
		}
		if a.Phone != "11988887777" {
			t.Fatalf("expected normalized phone, got %q", a.Phone)
		}
		if a.Dog == nil || a.Dog.Name != "Thor" {
			t.Fatalf("expected joined dog view, body=%s", string(body))
		}
	}

	// 6) Staff aprueba: el animal pasa a adoptado / no disponible
	updateAdoptionStatus(t, ts.URL, staffID, adoptionID, "approved", "")
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+itoa(dogID), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get dog, got %d", st)
		}
		var d struct {
			Available bool   `json:"available"`
			Status    string `json:"status"`
		}
		_ = json.Unmarshal(body, &d)
		if d.Available || d.Status != "adopted" {
			t.Fatalf("expected dog adopted after approval, body=%s", string(body))
		}
	}

	// 7) Nueva postulación para el mismo animal => rechazada por disponibilidad
	{
		st, body := doReq(t, ts.URL, "POST", "/adoptions", "", adoptionPayload(dogID, "11977776666"))
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unavailable dog, got %d body=%s", st, string(body))
		}
	}

	// 8) Staff revierte la aprobación con motivo: el animal se reabre
	updateAdoptionStatus(t, ts.URL, staffID, adoptionID, "rejected", "adopter withdrew")
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+itoa(dogID), "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get dog, got %d", st)
		}
		var d struct {
			Available bool   `json:"available"`
			Status    string `json:"status"`
		}
		_ = json.Unmarshal(body, &d)
		if !d.Available || d.Status != "available" {
			t.Fatalf("expected dog reopened after reversal, body=%s", string(body))
		}
	}

	// 9) El motivo del rechazo quedó persistido
	{
		st, body := doReq(t, ts.URL, "GET", "/adoptions", staffID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing adoptions, got %d", st)
		}
		var resp struct {
			Adoptions []struct {
				Status          string `json:"status"`
				RejectionReason string `json:"rejectionReason"`
			} `json:"adoptions"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp.Adoptions) != 1 || resp.Adoptions[0].Status != "rejected" {
			t.Fatalf("expected rejected adoption, body=%s", string(body))
		}
		if resp.Adoptions[0].RejectionReason != "adopter withdrew" {
			t.Fatalf("expected rejection reason, body=%s", string(body))
		}
	}
}

func TestHTTP_AdminRoutes_RequireAdminRole(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// editor no entra a gestión de usuarios
	{
		req, _ := http.NewRequest("GET", ts.URL+"/admin/users", nil)
		req.Header.Set("X-Debug-User-ID", "staff-2")
		req.Header.Set("X-Debug-Role", "editor")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403 for editor on /admin/users, got %d", resp.StatusCode)
		}
	}

	// admin sí
	{
		st, body := doReq(t, ts.URL, "GET", "/admin/users", "admin-1", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 for admin on /admin/users, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_DogList_PaginationReflectsServedLimit(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	createDog(t, ts.URL, "staff-1", map[string]any{
		"name":        "Luna",
		"age":         "3 anos",
		"size":        "small",
		"gender":      "female",
		"animalType":  "dog",
		"description": "Tranquila, ideal para departamento pequeño.",
		"temperament": "tranquila",
	})

	// limit fuera de rango: se sirve el default y la paginación lo refleja
	st, body := doReq(t, ts.URL, "GET", "/dogs?limit=500", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing dogs, got %d body=%s", st, string(body))
	}

	var resp struct {
		Dogs       []json.RawMessage `json:"dogs"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	_ = json.Unmarshal(body, &resp)

	if resp.Pagination.Limit != 12 {
		t.Fatalf("expected served limit 12 in pagination, got %d body=%s", resp.Pagination.Limit, string(body))
	}
	if resp.Pagination.Page != 1 || resp.Pagination.Total != 1 || resp.Pagination.Pages != 1 {
		t.Fatalf("unexpected pagination envelope, body=%s", string(body))
	}
	if len(resp.Dogs) != 1 {
		t.Fatalf("expected one dog, body=%s", string(body))
	}
}

func TestHTTP_SubmitAdoption_UnknownDog(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/adoptions", "", adoptionPayload(999, "11988887777"))
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown dog, got %d body=%s", st, string(body))
	}
}

// -------------------------
// Helpers
// -------------------------

func adoptionPayload(dogID int64, phone string) map[string]any {
	return map[string]any{
		"dogId":      dogID,
		"name":       "Maria Silva",
		"email":      "maria@example.com",
		"phone":      phone,
		"address":    "Rua das Flores 123, São Paulo",
		"experience": "I had two dogs before",
		"reason":     "I want to give a dog a loving home",
	}
}

func createDog(t *testing.T, baseURL, staffID string, payload map[string]any) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/dogs", staffID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}

	var resp struct {
		Dog struct {
			ID int64 `json:"id"`
		} `json:"dog"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Dog.ID == 0 {
		t.Fatalf("create dog: missing id body=%s", string(body))
	}
	return resp.Dog.ID
}

func submitAdoption(t *testing.T, baseURL string, dogID int64, phone string) int64 {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/adoptions", "", adoptionPayload(dogID, phone))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit adoption, got %d body=%s", st, string(body))
	}

	var resp struct {
		Adoption struct {
			ID int64 `json:"id"`
		} `json:"adoption"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Adoption.ID == 0 {
		t.Fatalf("submit adoption: missing id body=%s", string(body))
	}
	return resp.Adoption.ID
}

func updateAdoptionStatus(t *testing.T, baseURL, staffID string, id int64, status, reason string) {
	t.Helper()

	payload := map[string]any{"status": status}
	if reason != "" {
		payload["reason"] = reason
	}
	st, body := doReq(t, baseURL, "PATCH", "/adoptions/"+itoa(id)+"/status", staffID, payload)
	if st != http.StatusOK {
		t.Fatalf("expected 200 update status, got %d body=%s", st, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, userID string, payload map[string]any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
