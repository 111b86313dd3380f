package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdgmon/portal-go/internal/domain/user"
	"github.com/sdgmon/portal-go/internal/testutils"
)

func TestAssignmentNext(t *testing.T) {
	db := testutils.OpenSQLite(t)
	router := testutils.SetupRouter(t, db)

	token := seedUser(t, db, "submitter@sdg.test", user.RoleSubmitter)

	// No reviewers registered yet: the signal is a 404, not a server error.
	w := doJSON(t, router, http.MethodGet, "/assignments/next?role=reviewer", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"unavailable"}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/assignments/next?role=submitter", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	seedUser(t, db, "reviewer@sdg.test", user.RoleReviewer)

	w = doJSON(t, router, http.MethodGet, "/assignments/next?role=reviewer", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "reviewer@sdg.test", env.Data.Email)
}

func TestAssignmentWorkload(t *testing.T) {
	db := testutils.OpenSQLite(t)
	router := testutils.SetupRouter(t, db)

	reviewerToken := seedUser(t, db, "reviewer@sdg.test", user.RoleReviewer)
	submitterToken := seedUser(t, db, "submitter@sdg.test", user.RoleSubmitter)

	w := doJSON(t, router, http.MethodPost, "/records", submitterToken, map[string]any{
		"id":      "FM-OC-001",
		"status":  "submitted",
		"value":   "1",
		"message": "for the dashboard",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/assignments/workload", reviewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Data struct {
			Reviewers []struct {
				Email        string `json:"email"`
				PendingCount int    `json:"pending_count"`
			} `json:"reviewers"`
			TotalPendingReview int `json:"total_pending_review"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data.Reviewers, 1)
	assert.Equal(t, 1, env.Data.TotalPendingReview)
}
