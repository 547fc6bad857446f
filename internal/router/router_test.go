package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vetcare-api/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier:      nil, // modo dev: identidad por headers de debug
		DisposableDomains: []string{"yopmail", "mailinator"},
		QRBaseURL:         "https://vetcare.test/qr",
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_HistoryAccessControl(t *testing.T) {
	ts := newTestServer(t)

	ownerID := "owner-1"
	clinicID := "clinic-1"

	// 1) Registro: dueño y clínica, clasificados por email
	registerUser(t, ts.URL, ownerID, "maria@gmail.com", "owner")
	registerUser(t, ts.URL, clinicID, "turnos@vetnorte.com", "clinic")

	// 2) Email descartable => 403
	{
		st, _ := doReq(t, ts.URL, "POST", "/session", "tmp-1", "algo@yopmail.com", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for disposable email, got %d", st)
		}
	}

	// 3) Dueño registra mascota
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Milo",
		"species": "dog",
		"breed":   "mixed",
	})

	// 4) Clínica registrada pero NO autorizada: no lee...
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID+"/history", clinicID, "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 read before authorization, got %d", st)
		}
	}

	// 5) ...pero SÍ escribe (cualquier clínica registrada escribe)
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/history", clinicID, "", map[string]any{
			"type":  "consulta",
			"title": "Control general",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 append by unauthorized clinic, got %d body=%s", st, string(body))
		}
	}

	// 6) El dueño no escribe en el historial
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/history", ownerID, "", map[string]any{
			"type": "consulta",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 append by owner, got %d", st)
		}
	}

	// 7) Dueño autoriza la clínica
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/authorizations", ownerID, "", map[string]any{
			"clinic_id": clinicID,
		})
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 authorize, got %d body=%s", st, string(body))
		}
	}

	// 8) Ahora la clínica lee el historial
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/history", clinicID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 read after authorization, got %d", st)
		}
		var entries []map[string]any
		_ = json.Unmarshal(body, &entries)
		if len(entries) != 1 {
			t.Fatalf("expected 1 history entry, got %d", len(entries))
		}
	}

	// 9) Vacuna anual => próxima en un año, visible en el resumen
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/history", clinicID, "", map[string]any{
			"type":         "vacuna",
			"vaccine_kind": "anual",
			"title":        "Antirrábica",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 append vacuna, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/pets/"+petID+"/history/summary", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 summary, got %d", st)
		}
		var sum struct {
			LastVaccination *time.Time `json:"last_vaccination"`
			NextVaccination *time.Time `json:"next_vaccination"`
		}
		if err := json.Unmarshal(body, &sum); err != nil {
			t.Fatalf("summary unmarshal: %v", err)
		}
		if sum.LastVaccination == nil || sum.NextVaccination == nil {
			t.Fatalf("expected vaccination dates in summary, body=%s", string(body))
		}
		want := sum.LastVaccination.AddDate(1, 0, 0)
		if !sum.NextVaccination.Equal(want) {
			t.Fatalf("expected next vaccination %v, got %v", want, sum.NextVaccination)
		}
	}

	// 10) Revocación: la clínica pierde lectura, conserva escritura
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID+"/authorizations/"+clinicID, ownerID, "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 revoke, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID+"/history", clinicID, "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 read after revoke, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "POST", "/pets/"+petID+"/history", clinicID, "", map[string]any{
			"type": "consulta",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 write after revoke, got %d", st)
		}
	}

	// 11) El dueño recibió las notificaciones de autorización/revocación
	{
		st, body := doReq(t, ts.URL, "GET", "/me/notifications", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 notifications, got %d", st)
		}
		kinds := notificationKinds(t, body)
		if !kinds["autorizacion_otorgada"] || !kinds["autorizacion_revocada"] {
			t.Fatalf("expected grant/revoke notifications, got %v", kinds)
		}
	}

	// 12) Soft-delete: solo el dueño; la mascota sale del listado
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, clinicID, "", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by non-owner, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "DELETE", "/pets/"+petID, ownerID, "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete by owner, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/pets", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list pets, got %d", st)
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 0 {
			t.Fatalf("expected inactive pet excluded, got %d", len(list))
		}
	}
}

func TestHTTP_Appointments_Lifecycle(t *testing.T) {
	ts := newTestServer(t)

	ownerID := "owner-2"
	clinicID := "clinic-2"
	registerUser(t, ts.URL, ownerID, "juan@gmail.com", "owner")
	registerUser(t, ts.URL, clinicID, "info@clinicasur.com", "clinic")

	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":    "Luna",
		"species": "cat",
	})

	// Crear turno: owner_id se deriva de la mascota
	var appointmentID string
	{
		st, body := doReq(t, ts.URL, "POST", "/appointments", ownerID, "", map[string]any{
			"pet_id":       petID,
			"clinic_id":    clinicID,
			"scheduled_at": time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
			"reason":       "vacunación",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create appointment, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID      string `json:"id"`
			OwnerID string `json:"owner_id"`
			Status  string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" || resp.OwnerID != ownerID || resp.Status != "programado" {
			t.Fatalf("unexpected appointment response %s", string(body))
		}
		appointmentID = resp.ID
	}

	// La clínica lo ve en su agenda; el dueño en la suya
	for _, userID := range []string{clinicID, ownerID} {
		st, body := doReq(t, ts.URL, "GET", "/appointments", userID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list appointments for %s, got %d", userID, st)
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("expected 1 appointment for %s, got %d", userID, len(list))
		}
	}

	// Estado inválido => 400
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/appointments/"+appointmentID+"/status", clinicID, "", map[string]any{
			"status": "pendiente",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid status, got %d", st)
		}
	}

	// Cancelación: 200 y notificación al dueño
	{
		st, body := doReq(t, ts.URL, "PATCH", "/appointments/"+appointmentID+"/status", clinicID, "", map[string]any{
			"status": "cancelado",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/me/notifications", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 notifications, got %d", st)
		}
		if !notificationKinds(t, body)["turno_cancelado"] {
			t.Fatalf("expected turno_cancelado notification, body=%s", string(body))
		}
	}

	// Marcar leída
	{
		st, body := doReq(t, ts.URL, "GET", "/me/notifications", ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 notifications, got %d", st)
		}
		var list []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &list)
		if len(list) == 0 {
			t.Fatalf("expected notifications present")
		}

		st, _ = doReq(t, ts.URL, "POST", "/me/notifications/"+list[0].ID+"/read", ownerID, "", nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 mark read, got %d", st)
		}
	}
}

func TestHTTP_UnauthenticatedRequestsRejected(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/pets", "/appointments", "/me/notifications"} {
		st, _ := doReq(t, ts.URL, "GET", path, "", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without identity, got %d", path, st)
		}
	}
}

// -------------------------
// Helpers
// -------------------------

func registerUser(t *testing.T, baseURL, userID, email, wantRole string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/session", userID, email, nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register %s, got %d body=%s", userID, st, string(body))
	}

	var resp struct {
		Role string `json:"role"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Role != wantRole {
		t.Fatalf("expected role %s for %s, got %s", wantRole, email, resp.Role)
	}
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func notificationKinds(t *testing.T, body []byte) map[string]bool {
	t.Helper()

	var list []struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("notifications unmarshal: %v", err)
	}
	out := map[string]bool{}
	for _, n := range list {
		out[n.Kind] = true
	}
	return out
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugEmail string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}
	if debugEmail != "" {
		req.Header.Set("X-Debug-Email", debugEmail)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}
