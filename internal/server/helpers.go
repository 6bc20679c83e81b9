package server

import (
	"strconv"
	"strings"

	"devlink/internal/models"
	"devlink/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

// parseID reads a numeric route parameter and returns it as a uint. An
// unparseable id is indistinguishable from a missing record to clients, so
// it writes the resource's 404 and returns ok=false; the handler should
// return nil in that case.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resourceForParam(param), raw))
		return 0, false
	}
	return uint(id), true
}

var paramResources = map[string]string{
	"id":         "Post",
	"user_id":    "Profile",
	"exp_id":     "Experience",
	"edu_id":     "Education",
	"comment_id": "Comment",
}

func resourceForParam(param string) string {
	if name, ok := paramResources[param]; ok {
		return name
	}
	return "Resource"
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// listParams is the parsed form of the common list-endpoint query grammar:
// ?page=&limit=&sort=&select= plus field filters like ?status=x or
// ?created_at[gte]=2024-01-01.
type listParams struct {
	Page  int
	Limit int
	Opts  repository.ListOptions
}

var filterOps = map[string]repository.FilterOp{
	"eq":  repository.OpEq,
	"gt":  repository.OpGt,
	"gte": repository.OpGte,
	"lt":  repository.OpLt,
	"lte": repository.OpLte,
	"in":  repository.OpIn,
}

// reserved query keys that are not column filters
var reservedQueryKeys = map[string]bool{
	"page":   true,
	"limit":  true,
	"sort":   true,
	"select": true,
}

// parseListParams parses pagination, sorting, selection, and filters from
// the query string. columns maps the API field names callers may reference
// to their DB columns; anything not in the map is silently dropped.
func parseListParams(c *fiber.Ctx, columns map[string]string) listParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	opts := repository.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if sort := c.Query("sort"); sort != "" {
		for _, field := range strings.Split(sort, ",") {
			field = strings.TrimSpace(field)
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			if col, ok := columns[field]; ok {
				opts.Sort = append(opts.Sort, repository.SortField{Column: col, Desc: desc})
			}
		}
	}

	if sel := c.Query("select"); sel != "" {
		selected := []string{"id"}
		for _, field := range strings.Split(sel, ",") {
			field = strings.TrimSpace(field)
			if col, ok := columns[field]; ok && col != "id" {
				selected = append(selected, col)
			}
		}
		if len(selected) > 1 {
			opts.Select = selected
		}
	}

	for key, values := range c.Queries() {
		field, op := splitFilterKey(key)
		if reservedQueryKeys[field] {
			continue
		}
		col, colOk := columns[field]
		filterOp, opOk := filterOps[op]
		if !colOk || !opOk || values == "" {
			continue
		}
		filterValues := []string{values}
		if filterOp == repository.OpIn {
			filterValues = strings.Split(values, ",")
		}
		opts.Filters = append(opts.Filters, repository.Filter{
			Column: col,
			Op:     filterOp,
			Values: filterValues,
		})
	}

	return listParams{Page: page, Limit: limit, Opts: opts}
}

// splitFilterKey splits "created_at[gte]" into ("created_at", "gte");
// a bare key means equality.
func splitFilterKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "eq"
	}
	return key[:open], key[open+1 : len(key)-1]
}

// listEnvelope builds the standard list response. Count reflects the items
// on this page; next/prev links are derived from the filtered total.
func listEnvelope(params listParams, total int64, count int, data any) models.ListResponse {
	links := &models.PageLinks{}
	if int64(params.Page*params.Limit) < total {
		links.Next = &models.PageRef{Page: params.Page + 1, Limit: params.Limit}
	}
	if params.Page > 1 {
		links.Prev = &models.PageRef{Page: params.Page - 1, Limit: params.Limit}
	}
	return models.ListResponse{
		Success:    true,
		Count:      count,
		Pagination: links,
		Data:       data,
	}
}
