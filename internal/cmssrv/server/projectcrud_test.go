package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func createTestProject(t *testing.T, s *SiteServer, token, name string) string {
	t.Helper()
	req := authorizedRequest(t, "POST", "/projects", token, map[string]string{"name": name})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, response.Code, "create project: %s", response.Body.String())
	id := gjson.Get(response.Body.String(), "project_id").String()
	require.NotEmpty(t, id)
	return id
}

func TestProjectCreate(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)

	req := authorizedRequest(t, "POST", "/projects", token, map[string]string{
		"name":        "Portfolio",
		"description": "My portfolio site",
	})
	response := executeTestRequest(t, s, req)

	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	checkHeader(t, response.Result().Header)

	body := response.Body.String()
	projectID := gjson.Get(body, "project_id").String()
	assert.NotEmpty(t, projectID)
	assert.Equal(t, "Portfolio", gjson.Get(body, "name").String())
	assert.False(t, gjson.Get(body, "is_published").Bool())
	assert.Contains(t, response.Header().Get("Location"), "/projects/"+projectID)

	// Every new project is born with its default Home page.
	response = executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	require.Equal(t, http.StatusOK, response.Code)

	pages := gjson.Parse(response.Body.String()).Array()
	require.Len(t, pages, 1)
	assert.Equal(t, "Home", pages[0].Get("title").String())
	assert.Equal(t, "home", pages[0].Get("slug").String())
	assert.Equal(t, int64(0), pages[0].Get("order_index").Int())
}

func TestProjectCreateValidation(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)

	req := authorizedRequest(t, "POST", "/projects", token, map[string]string{"description": "no name"})
	response := executeTestRequest(t, s, req)
	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestProjectListMostRecentFirst(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)

	first := createTestProject(t, s, token, "First")
	time.Sleep(2 * time.Millisecond)
	second := createTestProject(t, s, token, "Second")
	time.Sleep(2 * time.Millisecond)

	// Updating the older project moves it to the front.
	req := authorizedRequest(t, "PUT", "/projects/"+first, token, map[string]string{"name": "First Edited"})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	response = executeTestRequest(t, s, authorizedRequest(t, "GET", "/projects", token, nil))
	require.Equal(t, http.StatusOK, response.Code)

	projects := gjson.Parse(response.Body.String()).Array()
	require.Len(t, projects, 2)
	assert.Equal(t, first, projects[0].Get("project_id").String())
	assert.Equal(t, second, projects[1].Get("project_id").String())

	// Limit caps the result.
	response = executeTestRequest(t, s, authorizedRequest(t, "GET", "/projects?limit=1", token, nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.Len(t, gjson.Parse(response.Body.String()).Array(), 1)
}

func TestProjectUpdateBumpsTimestamp(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Blog")

	response := executeTestRequest(t, s, authorizedRequest(t, "GET", "/projects/"+projectID, token, nil))
	require.Equal(t, http.StatusOK, response.Code)
	before := gjson.Get(response.Body.String(), "updated_at").Time()

	payload, err := sjson.Set(response.Body.String(), "is_published", true)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	req := authorizedRequest(t, "PUT", "/projects/"+projectID, token, payload)
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	after := gjson.Get(response.Body.String(), "updated_at").Time()
	assert.True(t, after.After(before), "updated_at not bumped: before=%v after=%v", before, after)
	assert.True(t, gjson.Get(response.Body.String(), "is_published").Bool())
}

func TestProjectDuplicate(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Shop")

	// Publish the source and add a second published page so the reset
	// on duplication is observable.
	req := authorizedRequest(t, "PUT", "/projects/"+projectID, token, map[string]any{
		"name":         "Shop",
		"is_published": true,
	})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code)

	req = authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token, map[string]any{
		"title":        "About Us",
		"is_published": true,
	})
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	response = executeTestRequest(t, s,
		authorizedRequest(t, "POST", "/projects/"+projectID+"/duplicate", token, nil))
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	body := response.Body.String()
	dupID := gjson.Get(body, "project_id").String()
	assert.NotEqual(t, projectID, dupID)
	assert.Equal(t, "Shop (Copy)", gjson.Get(body, "name").String())
	assert.False(t, gjson.Get(body, "is_published").Bool())

	// Copied pages come over with publish state reset.
	response = executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+dupID+"/pages", token, nil))
	require.Equal(t, http.StatusOK, response.Code)
	pages := gjson.Parse(response.Body.String()).Array()
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.False(t, p.Get("is_published").Bool(), "page %s still published", p.Get("slug").String())
	}

	// The original is untouched.
	response = executeTestRequest(t, s, authorizedRequest(t, "GET", "/projects/"+projectID, token, nil))
	require.Equal(t, http.StatusOK, response.Code)
	assert.True(t, gjson.Get(response.Body.String(), "is_published").Bool())
}

func TestProjectDelete(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Doomed")

	response := executeTestRequest(t, s, authorizedRequest(t, "DELETE", "/projects/"+projectID, token, nil))
	require.Equal(t, http.StatusOK, response.Code)

	response = executeTestRequest(t, s, authorizedRequest(t, "GET", "/projects/"+projectID, token, nil))
	assert.Equal(t, http.StatusNotFound, response.Code)

	// Pages are gone with the project.
	response = executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestProjectCrossUserIsNotFound(t *testing.T) {
	s, store := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Private")

	seedUser(t, store, "mallory@example.com", "another-password")
	req, _ := http.NewRequest("POST", "/auth/login", nil)
	setRequestBodyAndHeader(t, req, map[string]string{
		"email":    "mallory@example.com",
		"password": "another-password",
	})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code)
	otherToken := gjson.Get(response.Body.String(), "token").String()

	// Another user's project reads as not-found, never forbidden.
	response = executeTestRequest(t, s, authorizedRequest(t, "GET", "/projects/"+projectID, otherToken, nil))
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = executeTestRequest(t, s, authorizedRequest(t, "DELETE", "/projects/"+projectID, otherToken, nil))
	assert.Equal(t, http.StatusNotFound, response.Code)
}
