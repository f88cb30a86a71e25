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

func TestPageCreateDerivesSlug(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	req := authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token, map[string]string{
		"title": "Getting Started!",
	})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	body := response.Body.String()
	assert.Equal(t, "getting-started", gjson.Get(body, "slug").String())
	assert.Equal(t, int64(1), gjson.Get(body, "order_index").Int())
	assert.Contains(t, response.Header().Get("Location"), "/pages/")
}

func TestPageCreateExplicitOrderZero(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	// An explicit zero is a position, not a request to append.
	req := authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token, map[string]any{
		"title":       "Front",
		"order_index": 0,
	})
	response := executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	assert.Equal(t, int64(0), gjson.Get(response.Body.String(), "order_index").Int())

	// Omitting the index still appends after the current maximum.
	req = authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token, map[string]string{
		"title": "Last",
	})
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	assert.Equal(t, int64(1), gjson.Get(response.Body.String(), "order_index").Int())
}

func TestPageDuplicateSlugRejected(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	// The default page already owns the "home" slug.
	req := authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token, map[string]string{
		"title": "Another Home",
		"slug":  "home",
	})
	response := executeTestRequest(t, s, req)
	assert.Equal(t, http.StatusConflict, response.Code, response.Body.String())
}

func TestPageListOrdered(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		req := authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token,
			map[string]string{"title": title})
		response := executeTestRequest(t, s, req)
		require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	}

	response := executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	require.Equal(t, http.StatusOK, response.Code)

	pages := gjson.Parse(response.Body.String()).Array()
	require.Len(t, pages, 4)
	slugs := []string{}
	for i, p := range pages {
		assert.Equal(t, int64(i), p.Get("order_index").Int())
		slugs = append(slugs, p.Get("slug").String())
	}
	assert.Equal(t, []string{"home", "alpha", "beta", "gamma"}, slugs)
}

func TestPageUpdateBumpsTimestamp(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	response := executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	require.Equal(t, http.StatusOK, response.Code)
	page := gjson.Parse(response.Body.String()).Array()[0]
	pageID := page.Get("page_id").String()
	before := page.Get("updated_at").Time()

	// Edit the fetched record in place and send it back.
	payload, err := sjson.Set(page.Raw, "content", "# Hello\n\nEdited content.\n")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	req := authorizedRequest(t, "PUT", "/pages/"+pageID, token, payload)
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	body := response.Body.String()
	assert.Equal(t, "# Hello\n\nEdited content.\n", gjson.Get(body, "content").String())
	assert.True(t, gjson.Get(body, "updated_at").Time().After(before), "updated_at not bumped")
}

func TestPagePublishToggle(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	response := executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	pageID := gjson.Parse(response.Body.String()).Array()[0].Get("page_id").String()

	req := authorizedRequest(t, "PUT", "/pages/"+pageID, token, map[string]any{
		"title":        "Home",
		"is_published": true,
	})
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code)
	assert.True(t, gjson.Get(response.Body.String(), "is_published").Bool())
}

func TestLastPageDeleteRejected(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	response := executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	pageID := gjson.Parse(response.Body.String()).Array()[0].Get("page_id").String()

	response = executeTestRequest(t, s, authorizedRequest(t, "DELETE", "/pages/"+pageID, token, nil))
	assert.Equal(t, http.StatusConflict, response.Code, response.Body.String())

	// With a second page present the delete goes through.
	req := authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token,
		map[string]string{"title": "Spare"})
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusCreated, response.Code)

	response = executeTestRequest(t, s, authorizedRequest(t, "DELETE", "/pages/"+pageID, token, nil))
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	// And the survivor is now itself undeletable.
	response = executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	pages := gjson.Parse(response.Body.String()).Array()
	require.Len(t, pages, 1)
	response = executeTestRequest(t, s,
		authorizedRequest(t, "DELETE", "/pages/"+pages[0].Get("page_id").String(), token, nil))
	assert.Equal(t, http.StatusConflict, response.Code)
}

func TestPageReorder(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)
	projectID := createTestProject(t, s, token, "Docs")

	ids := []string{}
	response := executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	ids = append(ids, gjson.Parse(response.Body.String()).Array()[0].Get("page_id").String())

	for _, title := range []string{"Second", "Third"} {
		req := authorizedRequest(t, "POST", "/projects/"+projectID+"/pages", token,
			map[string]string{"title": title})
		response = executeTestRequest(t, s, req)
		require.Equal(t, http.StatusCreated, response.Code)
		ids = append(ids, gjson.Get(response.Body.String(), "page_id").String())
	}

	reversed := []string{ids[2], ids[1], ids[0]}
	req := authorizedRequest(t, "PUT", "/projects/"+projectID+"/pages/order", token,
		map[string]any{"page_ids": reversed})
	response = executeTestRequest(t, s, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	response = executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/projects/"+projectID+"/pages", token, nil))
	pages := gjson.Parse(response.Body.String()).Array()
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, reversed[i], p.Get("page_id").String())
	}
}

func TestPageNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	token := loginTestUser(t, s)

	response := executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/pages/00000000-0000-0000-0000-000000000001", token, nil))
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = executeTestRequest(t, s,
		authorizedRequest(t, "GET", "/pages/not-a-uuid", token, nil))
	assert.Equal(t, http.StatusBadRequest, response.Code)
}
