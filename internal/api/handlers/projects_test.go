package handlers_test

import (
	"net/http"
	"testing"

	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/tenant"
	"github.com/hugh/go-planner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectJSON struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Status           string   `json:"status"`
	ProjectManagerID string   `json:"project_manager_id"`
	StartDate        *string  `json:"start_date"`
	TechStack        []string `json:"tech_stack"`
	IsArchived       bool     `json:"is_archived"`
}

func TestProjectHandler_Create(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name       string
		user       *models.User
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "manager creates project",
			user: s.Manager,
			body: map[string]interface{}{
				"title":          "Website",
				"status":         "Active",
				"start_date":     "2024-01-15",
				"tech_stack":     []string{"go", "postgres"},
				"goals":          map[string]interface{}{"launch": "Q2"},
				"repository_url": "https://github.com/acme/website",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "team member forbidden",
			user:       s.Member,
			body:       map[string]interface{}{"title": "Nope", "status": "Active", "start_date": "2024-01-15"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing required fields",
			user:       s.Manager,
			body:       map[string]interface{}{"description": "no title"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad status",
			user:       s.Manager,
			body:       map[string]interface{}{"title": "X", "status": "Paused", "start_date": "2024-01-15"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "end before start",
			user: s.Admin,
			body: map[string]interface{}{
				"title": "X", "status": "Active",
				"start_date": "2024-02-01", "end_date": "2024-01-01",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed date",
			user:       s.Admin,
			body:       map[string]interface{}{"title": "X", "status": "Active", "start_date": "15/01/2024"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, env := s.do(t, "POST", "/api/v1/projects", tt.body, s.Token(tt.user))
			testutil.AssertStatus(t, rr, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var p projectJSON
				decodeData(t, env, &p)
				assert.Equal(t, "Website", p.Title)
				assert.Equal(t, tt.user.ID.String(), p.ProjectManagerID)
				assert.Equal(t, []string{"go", "postgres"}, p.TechStack)
				require.NotNil(t, p.StartDate)
			}
		})
	}
}

func TestProjectHandler_AdminAssignsManager(t *testing.T) {
	s := setupTestServer(t)

	body := map[string]interface{}{
		"title":              "Delegated",
		"status":             "On Hold",
		"start_date":         "2024-03-01T09:00:00Z",
		"project_manager_id": s.Manager.ID.String(),
	}
	rr, env := s.do(t, "POST", "/api/v1/projects", body, s.Token(s.Admin))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var p projectJSON
	decodeData(t, env, &p)
	assert.Equal(t, s.Manager.ID.String(), p.ProjectManagerID)

	// The assigned manager now sees it in their listing.
	rr, env = s.do(t, "GET", "/api/v1/projects", nil, s.Token(s.Manager))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var list []projectJSON
	decodeData(t, env, &list)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestProjectHandler_ListScoping(t *testing.T) {
	s := setupTestServer(t)
	otherManager := testutil.CreateTestUser(t, s.DB, s.Customer, tenant.RoleProjectManager)
	testutil.CreateTestProject(t, s.DB, s.Customer.ID, s.Manager.ID, "Mine")
	testutil.CreateTestProject(t, s.DB, s.Customer.ID, otherManager.ID, "Theirs")

	rr, env := s.do(t, "GET", "/api/v1/projects", nil, s.Token(s.Admin))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var all []projectJSON
	decodeData(t, env, &all)
	assert.Len(t, all, 2)

	rr, env = s.do(t, "GET", "/api/v1/projects", nil, s.Token(s.Manager))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var mine []projectJSON
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)

	rr, env = s.do(t, "GET", "/api/v1/projects", nil, s.Token(s.Member))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestProjectHandler_TenantIsolation(t *testing.T) {
	s := setupTestServer(t)

	other := testutil.CreateTestCustomer(t, s.DB, "Globex")
	otherAdmin := testutil.CreateTestUser(t, s.DB, other, tenant.RoleAdmin)
	foreign := testutil.CreateTestProject(t, s.DB, other.ID, otherAdmin.ID, "Secret")

	paths := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/api/v1/projects/" + foreign.ID.String(), nil},
		{"PUT", "/api/v1/projects/" + foreign.ID.String(), map[string]string{"title": "Mine now"}},
		{"DELETE", "/api/v1/projects/" + foreign.ID.String(), nil},
		{"GET", "/api/v1/projects/" + foreign.ID.String() + "/stats", nil},
		{"GET", "/api/v1/projects/" + foreign.ID.String() + "/metrics", nil},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rr, env := s.do(t, p.method, p.path, p.body, s.Token(s.Admin))
			testutil.AssertStatus(t, rr, http.StatusNotFound)
			assert.Equal(t, "Resource not found", env.Message)
		})
	}

	var unchanged models.Project
	require.NoError(t, s.DB.First(&unchanged, "id = ?", foreign.ID).Error)
	assert.Equal(t, "Secret", unchanged.Title)
	assert.False(t, unchanged.IsArchived)
}

func TestProjectHandler_UpdateAndArchive(t *testing.T) {
	s := setupTestServer(t)
	otherManager := testutil.CreateTestUser(t, s.DB, s.Customer, tenant.RoleProjectManager)
	project := testutil.CreateTestProject(t, s.DB, s.Customer.ID, s.Manager.ID, "Website")
	path := "/api/v1/projects/" + project.ID.String()

	rr, _ := s.do(t, "PUT", path, map[string]string{"title": "Hijack"}, testutil.GenerateTestToken(t, s.JWTService, otherManager))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr, _ = s.do(t, "PUT", path, map[string]string{"title": "Hijack"}, s.Token(s.Member))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr, env := s.do(t, "PUT", path, map[string]string{"title": "Website v2", "status": "Completed"}, s.Token(s.Manager))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var p projectJSON
	decodeData(t, env, &p)
	assert.Equal(t, "Website v2", p.Title)
	assert.Equal(t, "Completed", p.Status)

	rr, _ = s.do(t, "DELETE", path, nil, s.Token(s.Manager))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr, _ = s.do(t, "GET", path, nil, s.Token(s.Manager))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestProjectHandler_Stats(t *testing.T) {
	s := setupTestServer(t)
	project := testutil.CreateTestProject(t, s.DB, s.Customer.ID, s.Manager.ID, "Website")
	task := testutil.CreateTestTask(t, s.DB, project, "Build", models.StatusInProgress)
	testutil.CreateTestSubtask(t, s.DB, task, "a", models.StatusCompleted, nil)
	testutil.CreateTestSubtask(t, s.DB, task, "b", models.StatusInProgress, nil)
	testutil.CreateTestSubtask(t, s.DB, task, "c", models.StatusNotStarted, nil)

	rr, env := s.do(t, "GET", "/api/v1/projects/"+project.ID.String()+"/stats", nil, s.Token(s.Member))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var stats struct {
		TotalTasks        int64 `json:"total_tasks"`
		TotalSubtasks     int64 `json:"total_subtasks"`
		CompletedSubtasks int64 `json:"completed_subtasks"`
		CompletionRate    int   `json:"completion_rate"`
	}
	decodeData(t, env, &stats)
	assert.Equal(t, int64(1), stats.TotalTasks)
	assert.Equal(t, int64(3), stats.TotalSubtasks)
	assert.Equal(t, int64(1), stats.CompletedSubtasks)
	assert.Equal(t, 33, stats.CompletionRate)

	rr, _ = s.do(t, "GET", "/api/v1/projects/not-a-uuid/stats", nil, s.Token(s.Admin))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}
