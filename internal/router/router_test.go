package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"poultry_farm_backend/internal/bridge"
	"poultry_farm_backend/internal/config"
	"poultry_farm_backend/internal/database"
	"poultry_farm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestEngine(t *testing.T, authCfg config.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.OpenAndMigrate(context.Background(), config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine := gin.New()
	Setup(engine, bridge.NewServices(db), authCfg)
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, body, token string) (int, envelope) {
	code, raw := doRaw(t, engine, method, path, body, token)
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decoding %s %s response %q: %v", method, path, raw, err)
		}
	}
	return code, env
}

func doRaw(t *testing.T, engine *gin.Engine, method, path, body, token string) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func TestInvokeStatusMapping(t *testing.T) {
	engine := newTestEngine(t, config.AuthConfig{})

	code, env := do(t, engine, http.MethodPost, "/api/v1/invoke/supplier:add", `{"args":[{"name":"Kuku","product":"chicks"}]}`, "")
	if code != http.StatusOK {
		t.Fatalf("supplier:add status = %d, body error %+v", code, env.Error)
	}
	var sup struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &sup); err != nil || sup.ID == 0 {
		t.Fatalf("supplier:add data = %s, %v", env.Data, err)
	}

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"list without body", "/api/v1/invoke/supplier:list", "", http.StatusOK, ""},
		{"unknown operation", "/api/v1/invoke/supplier:fly", "", http.StatusNotFound, "UNKNOWN_OPERATION"},
		{"bad payload", "/api/v1/invoke/supplier:get", `{"args":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"validation", "/api/v1/invoke/supplier:add", `{"args":[{"name":""}]}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", "/api/v1/invoke/supplier:get", `{"args":[999]}`, http.StatusNotFound, "NOT_FOUND"},
		{"event on missing batch", "/api/v1/invoke/broiler:addEvent",
			`{"args":[{"batch_id":999,"event_type":"mortality","quantity":1,"event_date":"2024-03-01"}]}`, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, engine, http.MethodPost, tt.path, tt.body, "")
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (error %+v)", code, tt.wantCode, env.Error)
			}
			if tt.wantErr == "" {
				return
			}
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Fatalf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
		})
	}
}

func TestInvokeWithEmptyBody(t *testing.T) {
	engine := newTestEngine(t, config.AuthConfig{})

	tests := []struct {
		name          string
		contentLength int64
	}{
		{"sized", 0},
		{"chunked", -1},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoke/supplier:list", bytes.NewReader(nil))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = tt.contentLength
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s body: status = %d, body %s", tt.name, rec.Code, rec.Body.String())
		}
	}
}

func TestListOperations(t *testing.T) {
	engine := newTestEngine(t, config.AuthConfig{})
	code, env := do(t, engine, http.MethodGet, "/api/v1/operations", "", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var names []string
	if err := json.Unmarshal(env.Data, &names); err != nil || len(names) == 0 {
		t.Fatalf("operations = %s, %v", env.Data, err)
	}
}

func TestTokenRequiredWhenAuthEnabled(t *testing.T) {
	hash, err := services.HashPIN("2468")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	engine := newTestEngine(t, config.AuthConfig{
		Enabled:         true,
		PinHash:         hash,
		JWTSecret:       "test-secret",
		TokenTTLMinutes: 5,
	})

	if code, _ := do(t, engine, http.MethodGet, "/api/v1/operations", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", code)
	}
	if code, _ := do(t, engine, http.MethodGet, "/api/v1/operations", "", "garbage"); code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", code)
	}
	if code, _ := do(t, engine, http.MethodPost, "/api/v1/auth/login", `{"pin":"1111"}`, ""); code != http.StatusUnauthorized {
		t.Fatalf("wrong pin status = %d, want 401", code)
	}

	code, raw := doRaw(t, engine, http.MethodPost, "/api/v1/auth/login", `{"pin":"2468"}`, "")
	if code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", code, raw)
	}
	var auth services.AuthResponse
	if err := json.Unmarshal(raw, &auth); err != nil || auth.AccessToken == "" {
		t.Fatalf("login body = %s, %v", raw, err)
	}

	if code, _ := do(t, engine, http.MethodGet, "/api/v1/operations", "", auth.AccessToken); code != http.StatusOK {
		t.Fatalf("with token status = %d, want 200", code)
	}
}

func TestLoginWhenAuthDisabled(t *testing.T) {
	engine := newTestEngine(t, config.AuthConfig{})
	if code, _ := do(t, engine, http.MethodPost, "/api/v1/auth/login", `{"pin":"2468"}`, ""); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if code, _ := do(t, engine, http.MethodGet, "/ping", "", ""); code != http.StatusOK {
		t.Fatalf("ping status = %d", code)
	}
}
