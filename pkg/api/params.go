package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Allowed query parameters per filtered list route. The cache key function,
// the skip predicate and the handler validation must all agree on these, or
// an invalid request could collide with a valid cached entry.
var (
	blogListParams    = []string{"category", "tag", "page", "limit"}
	projectListParams = []string{"featured", "tech", "page", "limit"}
	contactListParams = []string{"unread", "page", "limit"}
)

// unknownQueryKey returns the first query parameter not in allowed.
func unknownQueryKey(c *gin.Context, allowed []string) (string, bool) {
	for key := range c.Request.URL.Query() {
		ok := false
		for _, a := range allowed {
			if key == a {
				ok = true
				break
			}
		}
		if !ok {
			return key, true
		}
	}
	return "", false
}

// checkQuery rejects query strings carrying parameters the route does not
// understand, so typos fail loudly instead of silently widening the result.
func checkQuery(c *gin.Context, allowed ...string) error {
	if key, found := unknownQueryKey(c, allowed); found {
		return errBadRequest("unknown query parameter %q", key)
	}
	return nil
}

// pagination reads page and limit, clamping both to sane bounds.
func pagination(c *gin.Context) (page, limit int, err error) {
	page, limit = 1, defaultPageSize
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errBadRequest("invalid page %q", raw)
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errBadRequest("invalid limit %q", raw)
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	return page, limit, nil
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errBadRequest("invalid %s %q", key, raw)
	}
	return &v, nil
}
