package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/apperr"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/repository"
	"github.com/hugh/go-planner/internal/service"
	"github.com/hugh/go-planner/internal/tenant"
	"github.com/hugh/go-planner/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	projects []uuid.UUID
}

func (n *recordingNotifier) ProjectChanged(_ context.Context, _, projectID uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.projects = append(n.projects, projectID)
	return nil
}

type fixture struct {
	*testutil.TestSetup
	svc      *service.Service
	repo     *repository.Repository
	notifier *recordingNotifier
	project  *models.Project
	other    *models.Customer
	outsider *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tc := testutil.NewTestContext(t)
	repo := repository.New(tc.DB)
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	other := testutil.CreateTestCustomer(t, tc.DB, "Globex")

	return &fixture{
		TestSetup: tc,
		svc: service.New(tc.DB, repo, logger,
			service.WithNotifier(notifier),
			service.WithClock(func() time.Time { return fixedNow }),
		),
		repo:     repo,
		notifier: notifier,
		project:  testutil.CreateTestProject(t, tc.DB, tc.Customer.ID, tc.Manager.ID, "Website"),
		other:    other,
		outsider: testutil.CreateTestUser(t, tc.DB, other, tenant.RoleAdmin),
	}
}

func (f *fixture) as(t *testing.T, u *models.User) context.Context {
	return testutil.ActorContext(t, u)
}

func strPtr(s string) *string { return &s }

func statusPtr(s models.WorkStatus) *models.WorkStatus { return &s }

func TestService_RequiresActor(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateTeam(context.Background(), service.CreateTeamInput{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestService_TeamMemberCannotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Member)
	task := testutil.CreateTestTask(t, f.DB, f.project, "T", models.StatusNotStarted)
	sub := testutil.CreateTestSubtask(t, f.DB, task, "S", models.StatusNotStarted, &f.Member.ID)
	team := testutil.CreateTestTeam(t, f.DB, f.Customer.ID, "Alpha")

	errs := map[string]error{}
	_, errs["create project"] = f.svc.CreateProject(ctx, service.CreateProjectInput{Title: "P", Status: models.ProjectActive, StartDate: fixedNow})
	_, errs["update project"] = f.svc.UpdateProject(ctx, f.project.ID, service.UpdateProjectInput{Title: strPtr("x")})
	errs["archive project"] = f.svc.ArchiveProject(ctx, f.project.ID)
	_, errs["create task"] = f.svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: f.project.ID, Title: "T", Status: models.StatusNotStarted})
	_, errs["update task"] = f.svc.UpdateTask(ctx, task.ID, service.UpdateTaskInput{Title: strPtr("x")})
	errs["delete task"] = f.svc.DeleteTask(ctx, task.ID)
	_, errs["create subtask"] = f.svc.CreateSubtask(ctx, service.CreateSubtaskInput{TaskID: task.ID, Title: "S", Status: models.StatusNotStarted})
	_, errs["update subtask"] = f.svc.UpdateSubtask(ctx, sub.ID, service.UpdateSubtaskInput{Status: statusPtr(models.StatusInProgress)})
	errs["delete subtask"] = f.svc.DeleteSubtask(ctx, sub.ID)
	_, errs["create team"] = f.svc.CreateTeam(ctx, service.CreateTeamInput{Name: "Beta"})
	_, errs["add member"] = f.svc.AddTeamMember(ctx, team.ID, f.Member.ID)
	errs["remove member"] = f.svc.RemoveTeamMember(ctx, team.ID, f.Member.ID)
	_, errs["create category"] = f.svc.CreateCategory(ctx, service.CreateCategoryInput{Name: "c", Color: "#000000"})

	for name, err := range errs {
		assert.ErrorIs(t, err, apperr.ErrForbidden, name)
	}

	var reloaded models.Subtask
	require.NoError(t, f.DB.First(&reloaded, "id = ?", sub.ID).Error)
	assert.Equal(t, models.StatusNotStarted, reloaded.Status)
}

func TestService_CreateProject(t *testing.T) {
	f := newFixture(t)

	t.Run("manager manages own project", func(t *testing.T) {
		p, err := f.svc.CreateProject(f.as(t, f.Manager), service.CreateProjectInput{
			Title:            "Mobile",
			Status:           models.ProjectActive,
			StartDate:        fixedNow,
			TechStack:        []string{"go", "postgres"},
			ProjectManagerID: &f.Admin.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, f.Manager.ID, p.ProjectManagerID, "managers cannot hand projects to others")
		assert.Equal(t, f.Customer.ID, p.CustomerID)
		assert.Equal(t, []string{"go", "postgres"}, []string(p.TechStack))
	})

	t.Run("admin may appoint a tenant user", func(t *testing.T) {
		p, err := f.svc.CreateProject(f.as(t, f.Admin), service.CreateProjectInput{
			Title: "Ops", Status: models.ProjectOnHold, StartDate: fixedNow, ProjectManagerID: &f.Manager.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, f.Manager.ID, p.ProjectManagerID)
	})

	t.Run("admin cannot appoint a user of another tenant", func(t *testing.T) {
		_, err := f.svc.CreateProject(f.as(t, f.Admin), service.CreateProjectInput{
			Title: "Ops", Status: models.ProjectActive, StartDate: fixedNow, ProjectManagerID: &f.outsider.ID,
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("invalid status and dates", func(t *testing.T) {
		_, err := f.svc.CreateProject(f.as(t, f.Admin), service.CreateProjectInput{Title: "X", Status: "Paused", StartDate: fixedNow})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		before := fixedNow.Add(-time.Hour)
		_, err = f.svc.CreateProject(f.as(t, f.Admin), service.CreateProjectInput{Title: "X", Status: models.ProjectActive, StartDate: fixedNow, EndDate: &before})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_UpdateAndArchiveProject(t *testing.T) {
	f := newFixture(t)
	otherManager := testutil.CreateTestUser(t, f.DB, f.Customer, tenant.RoleProjectManager)

	t.Run("manager of another project is forbidden", func(t *testing.T) {
		_, err := f.svc.UpdateProject(f.as(t, otherManager), f.project.ID, service.UpdateProjectInput{Title: strPtr("Hijack")})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("other tenant gets not found", func(t *testing.T) {
		_, err := f.svc.UpdateProject(f.as(t, f.outsider), f.project.ID, service.UpdateProjectInput{Title: strPtr("Hijack")})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("manager updates own project", func(t *testing.T) {
		status := models.ProjectOnHold
		p, err := f.svc.UpdateProject(f.as(t, f.Manager), f.project.ID, service.UpdateProjectInput{
			Title:  strPtr("Website v2"),
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Website v2", p.Title)
		assert.Equal(t, models.ProjectOnHold, p.Status)
	})

	t.Run("archive hides the project", func(t *testing.T) {
		require.NoError(t, f.svc.ArchiveProject(f.as(t, f.Admin), f.project.ID))

		_, err := f.repo.GetProject(f.as(t, f.Admin), f.project.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		err = f.svc.ArchiveProject(f.as(t, f.Admin), f.project.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_TaskStatusEndDate(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)

	task, err := f.svc.CreateTask(ctx, service.CreateTaskInput{
		ProjectID: f.project.ID,
		Title:     "Design",
		Status:    models.StatusNotStarted,
	})
	require.NoError(t, err)
	assert.Nil(t, task.EndDate)
	assert.Equal(t, models.PriorityMedium, task.Priority)

	completed, err := f.svc.UpdateTask(ctx, task.ID, service.UpdateTaskInput{Status: statusPtr(models.StatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, completed.EndDate)
	assert.True(t, completed.EndDate.Equal(fixedNow))

	// re-completing later keeps the original end_date
	again, err := service.New(f.DB, f.repo, slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.WithClock(func() time.Time { return fixedNow.Add(48 * time.Hour) }),
	).UpdateTask(ctx, task.ID, service.UpdateTaskInput{Status: statusPtr(models.StatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, again.EndDate)
	assert.True(t, again.EndDate.Equal(fixedNow))

	reopened, err := f.svc.UpdateTask(ctx, task.ID, service.UpdateTaskInput{Status: statusPtr(models.StatusInProgress)})
	require.NoError(t, err)
	assert.Nil(t, reopened.EndDate)
	assert.Equal(t, models.StatusInProgress, reopened.Status)

	t.Run("created completed", func(t *testing.T) {
		done, err := f.svc.CreateTask(ctx, service.CreateTaskInput{
			ProjectID: f.project.ID, Title: "Done", Status: models.StatusCompleted,
		})
		require.NoError(t, err)
		require.NotNil(t, done.EndDate)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.UpdateTask(ctx, task.ID, service.UpdateTaskInput{Status: statusPtr("Blocked")})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_CreateTaskReferences(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Admin)

	foreignProject := testutil.CreateTestProject(t, f.DB, f.other.ID, f.outsider.ID, "Foreign")
	_, err := f.svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: foreignProject.ID, Title: "T", Status: models.StatusNotStarted})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	foreignCategory := &models.Category{CustomerID: &f.other.ID, Name: "Theirs", Color: "#123456"}
	require.NoError(t, f.DB.Create(foreignCategory).Error)
	_, err = f.svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: f.project.ID, CategoryID: &foreignCategory.ID, Title: "T", Status: models.StatusNotStarted})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	global := &models.Category{Name: "Global", Color: "#654321"}
	require.NoError(t, f.DB.Create(global).Error)
	task, err := f.svc.CreateTask(ctx, service.CreateTaskInput{ProjectID: f.project.ID, CategoryID: &global.ID, Title: "T", Status: models.StatusNotStarted})
	require.NoError(t, err)
	assert.Equal(t, global.ID, *task.CategoryID)

	var count int64
	require.NoError(t, f.DB.Model(&models.Task{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestService_SubtaskCascade(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)
	task := testutil.CreateTestTask(t, f.DB, f.project, "Build", models.StatusNotStarted)

	first, err := f.svc.CreateSubtask(ctx, service.CreateSubtaskInput{
		TaskID: task.ID, Title: "first", Status: models.StatusNotStarted, AssignedUserID: &f.Member.ID,
	})
	require.NoError(t, err)
	second, err := f.svc.CreateSubtask(ctx, service.CreateSubtaskInput{
		TaskID: task.ID, Title: "second", Status: models.StatusNotStarted,
	})
	require.NoError(t, err)

	record, err := f.repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, record.StartDate, "not started subtasks leave the parent alone")
	assert.Equal(t, models.StatusNotStarted, record.Status)

	_, err = f.svc.UpdateSubtask(ctx, first.ID, service.UpdateSubtaskInput{Status: statusPtr(models.StatusInProgress)})
	require.NoError(t, err)

	record, err = f.repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, record.Status)
	require.NotNil(t, record.StartDate)
	assert.True(t, record.StartDate.Equal(fixedNow))

	later := service.New(f.DB, f.repo, slog.New(slog.NewTextHandler(io.Discard, nil)),
		service.WithClock(func() time.Time { return fixedNow.Add(time.Hour) }))
	_, err = later.UpdateSubtask(ctx, second.ID, service.UpdateSubtaskInput{Status: statusPtr(models.StatusCompleted)})
	require.NoError(t, err)

	record, err = f.repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, record.StartDate.Equal(fixedNow), "start_date is only set once")
	assert.Equal(t, 50, record.CompletionPercentage)
}

func TestService_SubtaskReferences(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)
	task := testutil.CreateTestTask(t, f.DB, f.project, "Build", models.StatusNotStarted)
	foreignTeam := testutil.CreateTestTeam(t, f.DB, f.other.ID, "Foreign")

	_, err := f.svc.CreateSubtask(ctx, service.CreateSubtaskInput{TaskID: task.ID, Title: "S", Status: models.StatusInProgress, AssignedUserID: &f.outsider.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.CreateSubtask(ctx, service.CreateSubtaskInput{TaskID: task.ID, Title: "S", Status: models.StatusInProgress, AssignedTeamID: &foreignTeam.ID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.CreateSubtask(ctx, service.CreateSubtaskInput{TaskID: uuid.New(), Title: "S", Status: models.StatusNotStarted})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// the failed in-progress creations rolled back without touching the parent
	var reloaded models.Task
	require.NoError(t, f.DB.First(&reloaded, "id = ?", task.ID).Error)
	assert.Nil(t, reloaded.StartDate)
	assert.Equal(t, models.StatusNotStarted, reloaded.Status)

	_, err = f.svc.UpdateSubtask(f.as(t, f.outsider), uuid.New(), service.UpdateSubtaskInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_DeleteTaskCascade(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Admin)
	task := testutil.CreateTestTask(t, f.DB, f.project, "Doomed", models.StatusInProgress)
	keeper := testutil.CreateTestTask(t, f.DB, f.project, "Keeper", models.StatusInProgress)
	sub := testutil.CreateTestSubtask(t, f.DB, task, "S", models.StatusInProgress, &f.Member.ID)

	_, err := f.svc.CreateTimeEntry(f.as(t, f.Member), service.TimeEntryInput{
		SubtaskID: sub.ID, StartTime: fixedNow, EndTime: fixedNow.Add(time.Hour), Duration: 60,
	})
	require.NoError(t, err)
	_, err = f.svc.AddDependency(ctx, keeper.ID, service.DependencyInput{DependsOnSubtaskID: &sub.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteTask(ctx, task.ID))

	for _, model := range []interface{}{&models.Subtask{}, &models.TimeEntry{}, &models.Dependency{}} {
		var count int64
		require.NoError(t, f.DB.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left behind", model)
	}
	assert.ErrorIs(t, f.svc.DeleteTask(ctx, task.ID), apperr.ErrNotFound)
	assert.Contains(t, f.notifier.projects, f.project.ID)
}

func TestService_TeamMembership(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)

	team, err := f.svc.CreateTeam(ctx, service.CreateTeamInput{Name: "Platform"})
	require.NoError(t, err)

	_, err = f.svc.AddTeamMember(ctx, team.ID, f.Member.ID)
	require.NoError(t, err)
	_, err = f.svc.AddTeamMember(ctx, team.ID, f.Member.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.AddTeamMember(ctx, team.ID, f.outsider.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, f.svc.RemoveTeamMember(ctx, team.ID, f.Member.ID))
	assert.ErrorIs(t, f.svc.RemoveTeamMember(ctx, team.ID, f.Member.ID), apperr.ErrNotFound)
}

func TestService_AddTeamMember_ExistingRowWins(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)

	team, err := f.svc.CreateTeam(ctx, service.CreateTeamInput{Name: "Platform"})
	require.NoError(t, err)

	// A row committed by another writer after any pre-check must still turn
	// the add into a conflict, without touching the stored row.
	joined := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, f.DB.Create(&models.TeamMember{TeamID: team.ID, UserID: f.Member.ID, JoinedAt: joined}).Error)

	_, err = f.svc.AddTeamMember(ctx, team.ID, f.Member.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var stored models.TeamMember
	require.NoError(t, f.DB.First(&stored, "team_id = ? AND user_id = ?", team.ID, f.Member.ID).Error)
	assert.True(t, joined.Equal(stored.JoinedAt))
}

func TestService_AddTeamMember_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)

	team, err := f.svc.CreateTeam(ctx, service.CreateTeamInput{Name: "Platform"})
	require.NoError(t, err)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.AddTeamMember(ctx, team.ID, f.Member.ID)
		}(i)
	}
	wg.Wait()

	added := 0
	for _, err := range errs {
		if err == nil {
			added++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrConflict)
	}
	assert.Equal(t, 1, added)

	var count int64
	require.NoError(t, f.DB.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestService_TimeEntries(t *testing.T) {
	f := newFixture(t)
	task := testutil.CreateTestTask(t, f.DB, f.project, "T", models.StatusInProgress)
	sub := testutil.CreateTestSubtask(t, f.DB, task, "S", models.StatusInProgress, &f.Member.ID)
	memberCtx := f.as(t, f.Member)

	tests := []struct {
		name     string
		span     time.Duration
		duration int64
		wantErr  error
	}{
		{"exact hour", time.Hour, 60, nil},
		{"mismatch", time.Hour, 45, apperr.ErrValidation},
		{"half minute rounds to even up", 59*time.Minute + 30*time.Second, 60, nil},
		{"half minute truncated is rejected", 59*time.Minute + 30*time.Second, 59, apperr.ErrValidation},
		{"half minute rounds to even down", 58*time.Minute + 30*time.Second, 58, nil},
		{"end before start", -time.Minute, -1, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := f.svc.CreateTimeEntry(memberCtx, service.TimeEntryInput{
				SubtaskID: sub.ID,
				StartTime: fixedNow,
				EndTime:   fixedNow.Add(tt.span),
				Duration:  tt.duration,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, f.Member.ID, entry.UserID)
		})
	}

	t.Run("offsets are stored as UTC", func(t *testing.T) {
		zone := time.FixedZone("UTC+2", 2*60*60)
		start := time.Date(2024, 5, 1, 14, 0, 0, 0, zone)
		entry, err := f.svc.CreateTimeEntry(memberCtx, service.TimeEntryInput{
			SubtaskID: sub.ID, StartTime: start, EndTime: start.Add(30 * time.Minute), Duration: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, time.UTC, entry.StartTime.Location())
		assert.Equal(t, 12, entry.StartTime.Hour())
	})

	t.Run("subtask of another tenant", func(t *testing.T) {
		_, err := f.svc.CreateTimeEntry(f.as(t, f.outsider), service.TimeEntryInput{
			SubtaskID: sub.ID, StartTime: fixedNow, EndTime: fixedNow.Add(time.Hour), Duration: 60,
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("update ownership", func(t *testing.T) {
		entry, err := f.svc.CreateTimeEntry(f.as(t, f.Manager), service.TimeEntryInput{
			SubtaskID: sub.ID, StartTime: fixedNow, EndTime: fixedNow.Add(time.Hour), Duration: 60,
		})
		require.NoError(t, err)

		in := service.TimeEntryInput{SubtaskID: sub.ID, StartTime: fixedNow, EndTime: fixedNow.Add(2 * time.Hour), Duration: 120, Notes: strPtr("longer")}
		_, err = f.svc.UpdateTimeEntry(memberCtx, entry.ID, in)
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		updated, err := f.svc.UpdateTimeEntry(f.as(t, f.Admin), entry.ID, in)
		require.NoError(t, err)
		assert.EqualValues(t, 120, updated.Duration)
		assert.Equal(t, "longer", *updated.Notes)
		assert.Equal(t, f.Manager.ID, updated.UserID, "owner is unchanged")
	})
}

func TestService_UpdateUser(t *testing.T) {
	f := newFixture(t)

	t.Run("member edits self", func(t *testing.T) {
		u, err := f.svc.UpdateUser(f.as(t, f.Member), f.Member.ID, service.UpdateUserInput{Username: strPtr("renamed")})
		require.NoError(t, err)
		assert.Equal(t, "renamed", u.Username)
	})

	t.Run("member cannot edit others or own role", func(t *testing.T) {
		_, err := f.svc.UpdateUser(f.as(t, f.Member), f.Admin.ID, service.UpdateUserInput{Username: strPtr("x")})
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		role := tenant.RoleAdmin
		_, err = f.svc.UpdateUser(f.as(t, f.Member), f.Member.ID, service.UpdateUserInput{Role: &role})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := f.svc.UpdateUser(f.as(t, f.Admin), f.Manager.ID, service.UpdateUserInput{Email: &f.Member.Email})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("admin changes role", func(t *testing.T) {
		role := tenant.RoleProjectManager
		u, err := f.svc.UpdateUser(f.as(t, f.Admin), f.Member.ID, service.UpdateUserInput{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, tenant.RoleProjectManager, u.Role)
	})

	t.Run("other tenant is not found", func(t *testing.T) {
		_, err := f.svc.UpdateUser(f.as(t, f.Admin), f.outsider.ID, service.UpdateUserInput{Username: strPtr("x")})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_Dependencies(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.Manager)
	a := testutil.CreateTestTask(t, f.DB, f.project, "A", models.StatusNotStarted)
	b := testutil.CreateTestTask(t, f.DB, f.project, "B", models.StatusNotStarted)
	sub := testutil.CreateTestSubtask(t, f.DB, b, "S", models.StatusNotStarted, nil)

	_, err := f.svc.AddDependency(ctx, a.ID, service.DependencyInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.AddDependency(ctx, a.ID, service.DependencyInput{DependsOnTaskID: &b.ID, DependsOnSubtaskID: &sub.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.AddDependency(ctx, a.ID, service.DependencyInput{DependsOnTaskID: &a.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	dep, err := f.svc.AddDependency(ctx, a.ID, service.DependencyInput{DependsOnTaskID: &b.ID})
	require.NoError(t, err)
	_, err = f.svc.AddDependency(ctx, a.ID, service.DependencyInput{DependsOnTaskID: &b.ID})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.AddDependency(ctx, a.ID, service.DependencyInput{DependsOnSubtaskID: &sub.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveDependency(ctx, a.ID, dep.ID))
	assert.ErrorIs(t, f.svc.RemoveDependency(ctx, a.ID, dep.ID), apperr.ErrNotFound)
}

func TestService_CreateCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateCategory(f.as(t, f.Admin), service.CreateCategoryInput{Name: "Bug", Color: "red"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	c, err := f.svc.CreateCategory(f.as(t, f.Admin), service.CreateCategoryInput{Name: "Bug", Color: "#ff0000"})
	require.NoError(t, err)
	require.NotNil(t, c.CustomerID)
	assert.Equal(t, f.Customer.ID, *c.CustomerID)
}
