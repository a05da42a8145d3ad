package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/usergraph/internal/config"
	"github.com/geocoder89/usergraph/internal/graph"
	apphttp "github.com/geocoder89/usergraph/internal/http"
	"github.com/geocoder89/usergraph/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func testConfig() config.Config {
	return config.Config{
		Env:           "test",
		Port:          0, // not used in tests
		Store:         config.StoreMemory,
		MaxBodyBytes:  1 << 20,
		Introspection: true,
	}
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Basic logger that discards outputs during tests

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg := testConfig()

	schema, err := graph.NewSchema(memory.NewUsersRepo(), logger, graph.Options{Introspection: cfg.Introspection})
	if err != nil {
		t.Fatalf("failed to build schema: %v", err)
	}

	return apphttp.NewRouter(logger, schema, cfg, nil)
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type userPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Company   string `json:"company"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Status    *bool  `json:"status"`
	Created   string `json:"created"`
}

const userSelection = `{ id firstName lastName email age phone website company username password role status created }`

func postGraphQL(t *testing.T, router *gin.Engine, query string, vars map[string]interface{}) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp gqlResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}

	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected graphql errors: %+v", resp.Errors)
	}

	return resp
}

func decodeUser(t *testing.T, raw json.RawMessage) *userPayload {
	t.Helper()

	if string(raw) == "null" {
		return nil
	}

	var u userPayload
	if err := json.Unmarshal(raw, &u); err != nil {
		t.Fatalf("decode user %s: %v", raw, err)
	}

	return &u
}

const addUser = `mutation ($firstName: String!, $lastName: String!, $email: String!, $age: Int!,
	$phone: String!, $website: String!, $company: String!, $username: String!, $password: String!,
	$role: String!, $status: Boolean!, $created: String!) {
	addUser(firstName: $firstName, lastName: $lastName, email: $email, age: $age, phone: $phone,
		website: $website, company: $company, username: $username, password: $password,
		role: $role, status: $status, created: $created) ` + userSelection + `
}`

const editUser = `mutation ($id: ID!, $firstName: String!, $lastName: String!, $email: String!, $age: Int!,
	$phone: String!, $website: String!, $company: String!, $username: String!, $password: String!,
	$role: String!, $status: Boolean!, $created: String!) {
	editUser(id: $id, firstName: $firstName, lastName: $lastName, email: $email, age: $age, phone: $phone,
		website: $website, company: $company, username: $username, password: $password,
		role: $role, status: $status, created: $created) ` + userSelection + `
}`

func ana() map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Ana", "lastName": "Ng", "email": "ana@x.io", "age": 30,
		"phone": "1", "website": "a.io", "company": "A", "username": "ana",
		"password": "p", "role": "admin", "status": true, "created": "2024-01-01",
	}
}

func countUsers(t *testing.T, router *gin.Engine) int {
	t.Helper()

	resp := postGraphQL(t, router, `{ users { id } }`, nil)

	var users []userPayload
	if err := json.Unmarshal(resp.Data["users"], &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}

	return len(users)
}

func TestUsersLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	if n := countUsers(t, router); n != 0 {
		t.Fatalf("expected empty store, got %d users", n)
	}

	// add
	added := decodeUser(t, postGraphQL(t, router, addUser, ana()).Data["addUser"])
	if added == nil || added.ID == "" {
		t.Fatalf("addUser returned no id: %+v", added)
	}

	if added.FirstName != "Ana" || added.Email != "ana@x.io" || added.Age != 30 ||
		added.Role != "admin" || added.Status == nil || !*added.Status || added.Created != "2024-01-01" {
		t.Fatalf("addUser did not echo the submitted fields: %+v", added)
	}

	if n := countUsers(t, router); n != 1 {
		t.Fatalf("expected 1 user after add, got %d", n)
	}

	// read back
	got := decodeUser(t, postGraphQL(t, router, `query ($id: ID) { user(id: $id) `+userSelection+` }`,
		map[string]interface{}{"id": added.ID}).Data["user"])
	if got == nil || got.Status == nil || *got.Status != *added.Status {
		t.Fatalf("user(id) = %+v, want %+v", got, added)
	}
	got.Status, added.Status = nil, nil
	if *got != *added {
		t.Fatalf("user(id) = %+v, want %+v", got, added)
	}

	// edit
	vars := ana()
	vars["id"] = added.ID
	vars["firstName"] = "Lee"
	vars["age"] = 41
	vars["status"] = false

	edited := decodeUser(t, postGraphQL(t, router, editUser, vars).Data["editUser"])
	if edited == nil || edited.ID != added.ID || edited.FirstName != "Lee" || edited.Age != 41 ||
		edited.Status == nil || *edited.Status {
		t.Fatalf("editUser = %+v", edited)
	}

	reread := decodeUser(t, postGraphQL(t, router, `query ($id: ID) { user(id: $id) { firstName lastName } }`,
		map[string]interface{}{"id": added.ID}).Data["user"])
	if reread == nil || reread.FirstName != "Lee" || reread.LastName != "Ng" {
		t.Fatalf("user(id) after edit = %+v", reread)
	}

	// delete
	deleted := decodeUser(t, postGraphQL(t, router, `mutation ($id: ID!) { deleteUser(id: $id) { id firstName } }`,
		map[string]interface{}{"id": added.ID}).Data["deleteUser"])
	if deleted == nil || deleted.ID != added.ID || deleted.FirstName != "Lee" {
		t.Fatalf("deleteUser = %+v", deleted)
	}

	gone := postGraphQL(t, router, `query ($id: ID) { user(id: $id) { id } }`, map[string]interface{}{"id": added.ID})
	if string(gone.Data["user"]) != "null" {
		t.Fatalf("expected null after delete, got %s", gone.Data["user"])
	}

	if n := countUsers(t, router); n != 0 {
		t.Fatalf("expected 0 users after delete, got %d", n)
	}
}

func TestEditAndDeleteMissingUserAreNull(t *testing.T) {
	router := setupTestRouter(t)

	vars := ana()
	vars["id"] = "does-not-exist"

	resp := postGraphQL(t, router, editUser, vars)
	if string(resp.Data["editUser"]) != "null" {
		t.Fatalf("expected null editUser, got %s", resp.Data["editUser"])
	}

	resp = postGraphQL(t, router, `mutation { deleteUser(id: "does-not-exist") { id } }`, nil)
	if string(resp.Data["deleteUser"]) != "null" {
		t.Fatalf("expected null deleteUser, got %s", resp.Data["deleteUser"])
	}
}

func TestUsersListGrowsAndShrinks(t *testing.T) {
	router := setupTestRouter(t)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		u := decodeUser(t, postGraphQL(t, router, addUser, ana()).Data["addUser"])
		ids = append(ids, u.ID)

		if n := countUsers(t, router); n != i+1 {
			t.Fatalf("after %d adds got %d users", i+1, n)
		}
	}

	if ids[0] == ids[1] || ids[1] == ids[2] || ids[0] == ids[2] {
		t.Fatalf("ids must be unique: %v", ids)
	}

	for i, id := range ids {
		postGraphQL(t, router, `mutation ($id: ID!) { deleteUser(id: $id) { id } }`, map[string]interface{}{"id": id})

		if n := countUsers(t, router); n != len(ids)-i-1 {
			t.Fatalf("after %d deletes got %d users", i+1, n)
		}
	}
}
