package server

import (
	"fmt"
	"net/http"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingEndpoints(t *testing.T) {
	t.Parallel()

	s, app := newTestServer(t)
	_, authorToken := createTestUser(t, s, "rated_author", models.RoleUser)
	_, criticToken := createTestUser(t, s, "critic", models.RoleUser)
	_, secondToken := createTestUser(t, s, "second_critic", models.RoleUser)

	post := createTestPost(t, app, authorToken, "Rateable")
	ratingURL := fmt.Sprintf("/api/posts/%d/rating", post.ID)

	rate := func(token string, value int) (*http.Response, error) {
		return app.Test(jsonRequest(t, http.MethodPost, ratingURL, map[string]int{"value": value}, token))
	}

	type aggregate struct {
		Average *float64 `json:"average"`
		Count   int64    `json:"count"`
	}

	t.Run("no ratings yields null average", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, ratingURL, nil, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var agg aggregate
		decodeJSON(t, resp, &agg)
		assert.Nil(t, agg.Average)
		assert.Equal(t, int64(0), agg.Count)
	})

	t.Run("value bounds enforced", func(t *testing.T) {
		for _, value := range []int{0, 6} {
			resp, err := rate(criticToken, value)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "value %d", value)
		}
	})

	t.Run("ratings aggregate", func(t *testing.T) {
		resp, err := rate(criticToken, 4)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = rate(secondToken, 2)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = app.Test(jsonRequest(t, http.MethodGet, ratingURL, nil, ""))
		require.NoError(t, err)
		var agg aggregate
		decodeJSON(t, resp, &agg)
		require.NotNil(t, agg.Average)
		assert.InDelta(t, 3.0, *agg.Average, 0.0001)
		assert.Equal(t, int64(2), agg.Count)
	})

	t.Run("repeat rating overwrites", func(t *testing.T) {
		resp, err := rate(criticToken, 5)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = app.Test(jsonRequest(t, http.MethodGet, ratingURL, nil, ""))
		require.NoError(t, err)
		var agg aggregate
		decodeJSON(t, resp, &agg)
		require.NotNil(t, agg.Average)
		assert.InDelta(t, 3.5, *agg.Average, 0.0001)
		// Still two raters, not three.
		assert.Equal(t, int64(2), agg.Count)
	})

	t.Run("rating a missing post is 404", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts/9999/rating",
			map[string]int{"value": 3}, criticToken))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("rating requires a credential", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, ratingURL,
			map[string]int{"value": 3}, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
