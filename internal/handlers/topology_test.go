package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"home_temperature_control/internal/models"
	"home_temperature_control/internal/service"
)

func TestTopologyHandlers_GetAddUpdateDelete(t *testing.T) {
	topo := &mockTopology{topo: &models.Topology{
		Rooms: map[string][]models.RoomInfo{
			"bathroom": {{ID: "bath_f1_big", Name: "Big bathroom", Floor: 1}},
		},
	}}
	r := newTestRouter(&service.Service{Topology: topo})

	// GET /topology
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/topology", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("topology status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.Topology
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal topology: %v", err)
	}
	if len(got.Rooms["bathroom"]) != 1 {
		t.Fatalf("unexpected topology: %+v", got)
	}

	// POST /topology/rooms/:type → 201 and passes payload through
	w = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"id":"bed_f2_guest","name":"Guest bedroom","floor":2}`)
	req = httptest.NewRequest(http.MethodPost, "/topology/rooms/bedroom", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status=%d, body=%s", w.Code, w.Body.String())
	}
	if topo.lastAddType != "bedroom" || topo.lastAdded.ID != "bed_f2_guest" || topo.lastAdded.Floor != 2 {
		t.Fatalf("wrong AddRoom args: type=%q room=%+v", topo.lastAddType, topo.lastAdded)
	}

	// PUT /topology/rooms/:id
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/topology/rooms/bath_f1_big", bytes.NewBufferString(`{"floor":3}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	if topo.lastPatchID != "bath_f1_big" || topo.lastPatch.Floor == nil || *topo.lastPatch.Floor != 3 {
		t.Fatalf("wrong UpdateRoom args: id=%q patch=%+v", topo.lastPatchID, topo.lastPatch)
	}
	if topo.lastPatch.Name != nil {
		t.Fatalf("name should stay unset in a partial patch: %+v", topo.lastPatch)
	}

	// DELETE /topology/rooms/:id
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/topology/rooms/bath_f1_big", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status=%d, body=%s", w.Code, w.Body.String())
	}
	if topo.lastDeleted != "bath_f1_big" {
		t.Fatalf("wrong DeleteRoom arg: %q", topo.lastDeleted)
	}
}

func TestTopologyHandlers_ErrorMapping(t *testing.T) {
	topo := &mockTopology{}
	r := newTestRouter(&service.Service{Topology: topo})

	// Unknown room type → 400
	topo.addErr = service.ErrInvalidRoomType
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/topology/rooms/pool", bytes.NewBufferString(`{"id":"pool_f0","name":"Pool"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", w.Code)
	}

	// Duplicate id → 409
	topo.addErr = service.ErrRoomExists
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/topology/rooms/bathroom", bytes.NewBufferString(`{"id":"bath_f1_big","name":"Dup"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate id, got %d", w.Code)
	}

	// Missing required fields → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/topology/rooms/bathroom", bytes.NewBufferString(`{"floor":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing fields, got %d", w.Code)
	}

	// Update/delete unknown room → 404
	topo.updateErr = service.ErrRoomNotFound
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/topology/rooms/missing", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for update of unknown room, got %d", w.Code)
	}

	topo.deleteErr = service.ErrRoomNotFound
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/topology/rooms/missing", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for delete of unknown room, got %d", w.Code)
	}
}
