// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/scheduler"
	"github.com/danielhkuo/dailyq/testutil"
)

func newAdminHandler(t *testing.T, e env) *AdminHandler {
	t.Helper()
	window, err := scheduler.ParseWindow(e.cfg.PublishWindowStart, e.cfg.PublishWindowEnd)
	if err != nil {
		t.Fatalf("Failed to parse window: %v", err)
	}
	jobs := scheduler.NewJobs(e.store, nil, e.cfg.Location, window, nil)
	runner, err := scheduler.NewRunner(jobs, e.cfg.SelectSchedule, e.cfg.CheckSchedule, e.cfg.JobTimeout)
	if err != nil {
		t.Fatalf("Failed to create runner: %v", err)
	}
	return NewAdminHandler(e.store, runner, e.cfg)
}

func TestQuestionBank(t *testing.T) {
	e := newEnv(t)
	h := newAdminHandler(t, e)

	w := httptest.NewRecorder()
	h.CreateQuestion(w, testutil.MakeRequest("POST", "/admin/questions", models.CreateQuestionRequest{Text: "  What are you reading?  "}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	var created models.Question
	testutil.AssertJSON(t, w, &created)
	if created.ID == "" || created.Text != "What are you reading?" {
		t.Errorf("Unexpected question %+v", created)
	}

	w = httptest.NewRecorder()
	h.CreateQuestion(w, testutil.MakeRequest("POST", "/admin/questions", models.CreateQuestionRequest{Text: "   "}, nil))
	assertErrorCode(t, w, http.StatusBadRequest, "validation_failed")

	w = httptest.NewRecorder()
	h.ListQuestions(w, testutil.MakeRequest("GET", "/admin/questions", nil, nil))
	var list models.QuestionsResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Questions) != 1 || list.Questions[0].ID != created.ID {
		t.Errorf("Expected the created question, got %+v", list.Questions)
	}
}

func TestBannedTerms(t *testing.T) {
	e := newEnv(t)
	h := newAdminHandler(t, e)

	w := httptest.NewRecorder()
	h.ListBannedTerms(w, testutil.MakeRequest("GET", "/admin/banned-terms", nil, nil))
	var terms models.BannedTermsResponse
	testutil.AssertJSON(t, w, &terms)
	if terms.Terms == nil || len(terms.Terms) != 0 {
		t.Errorf("Expected an empty list, got %v", terms.Terms)
	}

	w = httptest.NewRecorder()
	h.AddBannedTerm(w, testutil.MakeRequest("POST", "/admin/banned-terms", models.BannedTermRequest{Term: "spam"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	terms = models.BannedTermsResponse{}
	testutil.AssertJSON(t, w, &terms)
	if len(terms.Terms) != 1 || terms.Terms[0] != "spam" {
		t.Errorf("Expected [spam], got %v", terms.Terms)
	}

	req := testutil.MakeRequest("DELETE", "/admin/banned-terms/spam", nil, nil)
	req.SetPathValue("term", "spam")
	w = httptest.NewRecorder()
	h.DeleteBannedTerm(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	terms = models.BannedTermsResponse{}
	testutil.AssertJSON(t, w, &terms)
	if len(terms.Terms) != 0 {
		t.Errorf("Expected no terms, got %v", terms.Terms)
	}
}

func TestRunJob(t *testing.T) {
	e := newEnv(t)
	h := newAdminHandler(t, e)

	run := func(job string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/admin/jobs/"+job, nil, nil)
		req.SetPathValue("job", job)
		w := httptest.NewRecorder()
		h.RunJob(w, req)
		return w
	}

	assertErrorCode(t, run("vacuum"), http.StatusNotFound, "not_found")
	assertErrorCode(t, run(scheduler.JobSelect), http.StatusConflict, "empty_question_bank")

	testutil.CreateTestQuestion(t, e.db, "What are you reading?", "")

	w := run(scheduler.JobSelect)
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.JobRunResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Job != scheduler.JobSelect || resp.Outcome != scheduler.OutcomeScheduled {
		t.Errorf("Expected select/scheduled, got %+v", resp)
	}

	w = run(scheduler.JobSelect)
	resp = models.JobRunResponse{}
	testutil.AssertJSON(t, w, &resp)
	if resp.Outcome != scheduler.OutcomeExists {
		t.Errorf("Expected a repeat select to report %s, got %s", scheduler.OutcomeExists, resp.Outcome)
	}

	if _, err := e.store.GetDailyQuestion(t.Context(), time.Now().UTC().Format(models.DateLayout)); err != nil {
		t.Errorf("Expected today's question to be scheduled: %v", err)
	}
}
