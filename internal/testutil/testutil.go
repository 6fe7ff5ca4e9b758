package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/database/models"
	"github.com/hugh/go-planner/internal/tenant"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a migrated in-memory SQLite database that is closed when
// the test ends. A single connection keeps every statement on the same
// in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func CreateTestCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()

	domain := uuid.New().String()[:8] + ".example.com"
	customer := &models.Customer{
		Name:         name,
		ContactEmail: "contact@" + domain,
		Plan:         models.PlanBasic,
		TimeZone:     "UTC",
		Domain:       &domain,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return customer
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "testpassword123"

func CreateTestUser(t *testing.T, db *gorm.DB, customer *models.Customer, role tenant.Role) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.New().String()[:8]
	user := &models.User{
		CustomerID:   customer.ID,
		Username:     "user-" + suffix,
		Email:        "user-" + suffix + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func CreateTestProject(t *testing.T, db *gorm.DB, customerID, managerID uuid.UUID, title string) *models.Project {
	t.Helper()

	start := time.Now().UTC().Truncate(time.Second)
	project := &models.Project{
		CustomerID:       customerID,
		Title:            title,
		ProjectManagerID: managerID,
		Status:           models.ProjectActive,
		StartDate:        &start,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

func CreateTestTask(t *testing.T, db *gorm.DB, project *models.Project, title string, status models.WorkStatus) *models.Task {
	t.Helper()

	task := &models.Task{
		CustomerID: project.CustomerID,
		ProjectID:  project.ID,
		Title:      title,
		Status:     status,
		Priority:   models.PriorityMedium,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestSubtask creates a subtask, optionally assigned to a user.
func CreateTestSubtask(t *testing.T, db *gorm.DB, task *models.Task, title string, status models.WorkStatus, assignee *uuid.UUID) *models.Subtask {
	t.Helper()

	subtask := &models.Subtask{
		TaskID:         task.ID,
		Title:          title,
		Status:         status,
		AssignedUserID: assignee,
	}
	if err := db.Create(subtask).Error; err != nil {
		t.Fatalf("failed to create test subtask: %v", err)
	}
	return subtask
}

func CreateTestTeam(t *testing.T, db *gorm.DB, customerID uuid.UUID, name string, members ...*models.User) *models.Team {
	t.Helper()

	team := &models.Team{CustomerID: customerID, Name: name}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}
	for _, m := range members {
		tm := &models.TeamMember{UserID: m.ID, TeamID: team.ID, JoinedAt: time.Now().UTC()}
		if err := db.Create(tm).Error; err != nil {
			t.Fatalf("failed to add team member: %v", err)
		}
	}
	return team
}

func ActorFor(user *models.User) tenant.Actor {
	return tenant.Actor{UserID: user.ID, CustomerID: user.CustomerID, Role: user.Role}
}

// ActorContext returns a test context carrying the user's Actor.
func ActorContext(t *testing.T, user *models.User) context.Context {
	t.Helper()
	return tenant.WithActor(TestContext(t), ActorFor(user))
}

func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.CustomerID, user.Role.String())
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds a tenant with one user per role and their tokens.
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Customer   *models.Customer
	Admin      *models.User
	Manager    *models.User
	Member     *models.User
	Tokens     map[uuid.UUID]string
}

func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	customer := CreateTestCustomer(t, db, "Acme")

	ts := &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Customer:   customer,
		Admin:      CreateTestUser(t, db, customer, tenant.RoleAdmin),
		Manager:    CreateTestUser(t, db, customer, tenant.RoleProjectManager),
		Member:     CreateTestUser(t, db, customer, tenant.RoleTeamMember),
		Tokens:     make(map[uuid.UUID]string),
	}
	for _, u := range []*models.User{ts.Admin, ts.Manager, ts.Member} {
		ts.Tokens[u.ID] = GenerateTestToken(t, jwtService, u)
	}
	return ts
}

func (ts *TestSetup) Token(user *models.User) string {
	return ts.Tokens[user.ID]
}
