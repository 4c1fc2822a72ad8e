// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/testutil"
)

func TestRegisterPushDestination(t *testing.T) {
	e := newEnv(t)
	h := NewDeviceHandler(e.store, e.cfg)

	w := httptest.NewRecorder()
	h.Register(w, userRequest("POST", "/push-destinations", models.RegisterPushDestinationRequest{
		Token: "ExponentPushToken[abc]", Platform: models.PlatformIOS,
	}, "u1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "ExponentPushToken") {
		t.Error("Push token must not be echoed back")
	}

	// Re-registering the token updates rather than duplicates
	w = httptest.NewRecorder()
	h.Register(w, userRequest("POST", "/push-destinations", models.RegisterPushDestinationRequest{
		Token: "ExponentPushToken[abc]", Platform: models.PlatformAndroid,
	}, "u1"))
	testutil.AssertStatus(t, w, http.StatusCreated)

	dests, err := e.store.ListPushDestinations(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(dests) != 1 || dests[0].Platform != models.PlatformAndroid {
		t.Errorf("Expected one android destination, got %+v", dests)
	}
}

func TestRegisterPushDestination_Validation(t *testing.T) {
	e := newEnv(t)
	h := NewDeviceHandler(e.store, e.cfg)

	testCases := []struct {
		name    string
		req     models.RegisterPushDestinationRequest
		message string
	}{
		{"missing token", models.RegisterPushDestinationRequest{Platform: "ios"}, "token is required"},
		{"bad platform", models.RegisterPushDestinationRequest{Token: "t", Platform: "fax"}, "platform must be one of: ios, android, web"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Register(w, userRequest("POST", "/push-destinations", tc.req, "u1"))

			testutil.AssertStatus(t, w, http.StatusBadRequest)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestUnregisterPushDestinations(t *testing.T) {
	e := newEnv(t)
	h := NewDeviceHandler(e.store, e.cfg)
	testutil.CreateTestPushDestination(t, e.db, "u1", "tok-a", "ios")
	testutil.CreateTestPushDestination(t, e.db, "u1", "tok-b", "web")
	testutil.CreateTestPushDestination(t, e.db, "u2", "tok-c", "android")

	w := httptest.NewRecorder()
	h.Unregister(w, userRequest("DELETE", "/push-destinations/tok-a", nil, "u1", "token", "tok-a"))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	// Another user's token is untouched
	w = httptest.NewRecorder()
	h.Unregister(w, userRequest("DELETE", "/push-destinations/tok-c", nil, "u1", "token", "tok-c"))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	h.UnregisterAll(w, userRequest("DELETE", "/push-destinations", nil, "u1"))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	dests, err := e.store.ListPushDestinations(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(dests) != 1 || dests[0].UserID != "u2" {
		t.Errorf("Expected only u2's destination left, got %+v", dests)
	}
}
