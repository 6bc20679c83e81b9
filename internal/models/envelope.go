package models

import "github.com/gofiber/fiber/v2"

// PageRef points at an adjacent page in a list response.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PageLinks carries next/prev descriptors; either is omitted when there is
// no further page in that direction.
type PageLinks struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// ListResponse is the envelope for paginated list endpoints.
type ListResponse struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Pagination *PageLinks `json:"pagination,omitempty"`
	Data       any        `json:"data"`
}

// DataResponse is the envelope for single-resource responses.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// Respond writes the standard success envelope with the given status.
func Respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(DataResponse{Success: true, Data: data})
}
