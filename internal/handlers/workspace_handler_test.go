package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homevault/internal/repository"
	"homevault/internal/seed"
	"homevault/internal/service"
	"homevault/internal/store"
)

func newTestMux(t *testing.T, seedProvider seed.Provider) *http.ServeMux {
	t.Helper()

	s := store.NewMemoryStore()
	wsRepo := repository.NewWorkspaceRepository(s, "homevault")
	rosterRepo := repository.NewFamilyRosterRepository(s, "homevault", seedProvider)
	if err := wsRepo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := rosterRepo.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	workspaceHandler := NewWorkspaceHandler(service.NewWorkspaceService(wsRepo, seedProvider, nil))
	familyHandler := NewFamilyHandler(service.NewFamilyService(rosterRepo))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/workspaces", workspaceHandler.List)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.Create)
	mux.HandleFunc("POST /api/workspaces/join", workspaceHandler.Join)
	mux.HandleFunc("POST /api/workspaces/invites/accept", workspaceHandler.AcceptInvite)
	mux.HandleFunc("POST /api/workspaces/switch-prompt/dismiss", workspaceHandler.DismissSwitchPrompt)
	mux.HandleFunc("POST /api/workspaces/{id}/select", workspaceHandler.Select)
	mux.HandleFunc("POST /api/workspaces/{id}/invites", workspaceHandler.Invite)
	mux.HandleFunc("GET /api/family/members", familyHandler.List)
	mux.HandleFunc("POST /api/family/members", familyHandler.Add)
	mux.HandleFunc("GET /api/family/members/{id}", familyHandler.Get)
	mux.HandleFunc("PATCH /api/family/members/{id}", familyHandler.Update)
	mux.HandleFunc("DELETE /api/family/members/{id}", familyHandler.Remove)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)

	var resp APIResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s returned invalid JSON: %v", method, path, err)
	}
	return recorder, resp
}

func TestWorkspaceEndpoints(t *testing.T) {
	mux := newTestMux(t, seed.Empty{})

	recorder, resp := doJSON(t, mux, "POST", "/api/workspaces",
		`{"name":"Home","creator":{"id":"user-1","name":"Avery Kim","email":"avery@example.com"}}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", recorder.Code, recorder.Body.String())
	}
	created := resp.Data.(map[string]any)
	workspaceID := created["id"].(string)
	inviteCode := created["inviteCode"].(string)
	if workspaceID == "" || inviteCode == "" {
		t.Fatalf("created workspace missing id or inviteCode: %v", created)
	}

	recorder, resp = doJSON(t, mux, "GET", "/api/workspaces", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", recorder.Code)
	}
	list := resp.Data.(map[string]any)
	if list["activeWorkspaceId"] != workspaceID {
		t.Errorf("activeWorkspaceId = %v, want %q", list["activeWorkspaceId"], workspaceID)
	}

	recorder, resp = doJSON(t, mux, "POST", "/api/workspaces/nope/select", "")
	if recorder.Code != http.StatusNotFound {
		t.Errorf("select unknown status = %d, want 404", recorder.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("select unknown error = %+v, want NOT_FOUND", resp.Error)
	}

	recorder, _ = doJSON(t, mux, "POST", "/api/workspaces/join",
		`{"code":"`+inviteCode+`","member":{"id":"user-2","name":"Sam Ortiz","email":"sam@example.com","role":"editor"}}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("join status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	recorder, resp = doJSON(t, mux, "POST", "/api/workspaces/join",
		`{"code":"`+inviteCode+`","member":{"id":"user-2","name":"Sam Ortiz"}}`)
	if recorder.Code != http.StatusConflict {
		t.Errorf("rejoin status = %d, want 409", recorder.Code)
	}

	recorder, resp = doJSON(t, mux, "POST", "/api/workspaces/"+workspaceID+"/invites",
		`{"email":"pat@example.com","role":"viewer","invitedBy":"user-1"}`)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("invite status = %d, want 201: %s", recorder.Code, recorder.Body.String())
	}
	invite := resp.Data.(map[string]any)
	if invite["code"] != inviteCode {
		t.Errorf("invite code = %v, want %q", invite["code"], inviteCode)
	}

	recorder, _ = doJSON(t, mux, "POST", "/api/workspaces/invites/accept",
		`{"code":"`+inviteCode+`","member":{"id":"user-3","name":"Pat Rivera","email":"pat@example.com"}}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("accept status = %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	recorder, _ = doJSON(t, mux, "POST", "/api/workspaces/switch-prompt/dismiss", "")
	if recorder.Code != http.StatusOK {
		t.Errorf("dismiss status = %d, want 200", recorder.Code)
	}
}

func TestCreateWorkspaceRejectsBadBody(t *testing.T) {
	mux := newTestMux(t, seed.Empty{})

	recorder, resp := doJSON(t, mux, "POST", "/api/workspaces", `{"name":`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
	if resp.Error == nil || resp.Error.Code != "BAD_REQUEST" {
		t.Errorf("error = %+v, want BAD_REQUEST", resp.Error)
	}

	recorder, _ = doJSON(t, mux, "POST", "/api/workspaces",
		`{"name":"  ","creator":{"id":"user-1","name":"Avery Kim"}}`)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400", recorder.Code)
	}
}
