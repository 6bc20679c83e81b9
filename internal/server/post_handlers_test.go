package server

import (
	"fmt"
	"net/http"
	"testing"

	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	s, app := newTestServer(t)
	user, token := createTestUser(t, s, "Author", "author@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"text": "Hello devlink",
	})
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "Hello devlink", data["text"])
	assert.Equal(t, user.Name, data["name"])
	assert.Equal(t, user.Avatar, data["avatar"])
	assert.Equal(t, float64(user.ID), data["user"])
	assert.Empty(t, data["likes"])
	assert.Empty(t, data["comments"])
}

func TestCreatePostEmptyText(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "Author", "author@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{"text": ""})
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Text is required", body["error"])
}

func TestGetPostsEnvelope(t *testing.T) {
	s, app := newTestServer(t)
	user, token := createTestUser(t, s, "Author", "author@example.com")

	for i := 0; i < 3; i++ {
		post := models.Post{UserID: user.ID, Text: fmt.Sprintf("post %d", i), Name: user.Name}
		require.NoError(t, s.db.Create(&post).Error)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/posts?limit=2&page=1", token, nil)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])

	pagination := body["pagination"].(map[string]any)
	next := pagination["next"].(map[string]any)
	assert.Equal(t, float64(2), next["page"])
	_, hasPrev := pagination["prev"]
	assert.False(t, hasPrev)

	// Newest first
	posts := body["data"].([]any)
	first := posts[0].(map[string]any)
	assert.Equal(t, "post 2", first["text"])
}

func TestGetPostNotFound(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "Author", "author@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/posts/999", token, nil)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Post not found", body["error"])
}

func TestDeletePostOwnership(t *testing.T) {
	s, app := newTestServer(t)
	owner, ownerToken := createTestUser(t, s, "Owner", "owner@example.com")
	_, otherToken := createTestUser(t, s, "Other", "other@example.com")

	post := models.Post{UserID: owner.ID, Text: "mine"}
	require.NoError(t, s.db.Create(&post).Error)
	path := fmt.Sprintf("/api/posts/%d", post.ID)

	resp := doJSON(t, app, http.MethodDelete, path, otherToken, nil)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "You are not authorized to delete this post", body["error"])

	// Post persists after the rejected attempt
	resp = doJSON(t, app, http.MethodGet, path, ownerToken, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, path, ownerToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, path, ownerToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikeUnlikeFlow(t *testing.T) {
	s, app := newTestServer(t)
	owner, _ := createTestUser(t, s, "Owner", "owner@example.com")
	liker, likerToken := createTestUser(t, s, "Liker", "liker@example.com")

	post := models.Post{UserID: owner.ID, Text: "like me"}
	require.NoError(t, s.db.Create(&post).Error)

	likePath := fmt.Sprintf("/api/posts/like/%d", post.ID)
	unlikePath := fmt.Sprintf("/api/posts/unlike/%d", post.ID)

	resp := doJSON(t, app, http.MethodPut, likePath, likerToken, nil)
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	likes := body["data"].([]any)
	require.Len(t, likes, 1)
	assert.Equal(t, float64(liker.ID), likes[0].(map[string]any)["user"])

	// Second like is rejected and the list is unchanged
	resp = doJSON(t, app, http.MethodPut, likePath, likerToken, nil)
	body = decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Post already liked", body["error"])

	var likeCount int64
	require.NoError(t, s.db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.Equal(t, int64(1), likeCount)

	resp = doJSON(t, app, http.MethodPut, unlikePath, likerToken, nil)
	body = decodeBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])

	// Unliking again fails: nothing left to remove
	resp = doJSON(t, app, http.MethodPut, unlikePath, likerToken, nil)
	body = decodeBody(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Post has not yet been liked", body["error"])
}

func TestCommentFlow(t *testing.T) {
	s, app := newTestServer(t)
	owner, _ := createTestUser(t, s, "Owner", "owner@example.com")
	commenter, commenterToken := createTestUser(t, s, "Commenter", "commenter@example.com")
	_, otherToken := createTestUser(t, s, "Other", "other@example.com")

	post := models.Post{UserID: owner.ID, Text: "discuss"}
	require.NoError(t, s.db.Create(&post).Error)

	commentPath := fmt.Sprintf("/api/posts/comment/%d", post.ID)
	resp := doJSON(t, app, http.MethodPost, commentPath, commenterToken, map[string]string{
		"text": "great post",
	})
	body := decodeBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	comments := body["data"].([]any)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]any)
	assert.Equal(t, "great post", comment["text"])
	assert.Equal(t, commenter.Name, comment["name"])
	commentID := uint(comment["id"].(float64))

	deletePath := fmt.Sprintf("/api/posts/comment/%d/%d", post.ID, commentID)

	t.Run("non-author cannot delete", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, deletePath, otherToken, nil)
		body := decodeBody(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "You are not authorized to delete this comment", body["error"])
	})

	t.Run("unknown comment id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/posts/comment/%d/9999", post.ID), commenterToken, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("author deletes", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, deletePath, commenterToken, nil)
		body := decodeBody(t, resp)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, body["data"])
	})
}
