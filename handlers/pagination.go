package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var errBadCursor = errors.New("cursor must look like season:round:driver")

// Cursor is the (season, round, driver) key of the last row already returned.
type Cursor struct {
	Season int
	Round  int
	Driver string
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d:%s", c.Season, c.Round, c.Driver)
}

func ParseCursor(s string) (Cursor, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, errBadCursor
	}
	season, err := strconv.Atoi(parts[0])
	if err != nil {
		return Cursor{}, errBadCursor
	}
	round, err := strconv.Atoi(parts[1])
	if err != nil {
		return Cursor{}, errBadCursor
	}
	return Cursor{Season: season, Round: round, Driver: parts[2]}, nil
}

type PaginationParams struct {
	Limit int
	After *Cursor
}

type CursorResponse struct {
	Data       any    `json:"data"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

func ParsePagination(c *gin.Context) (PaginationParams, error) {
	p := PaginationParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if afterStr := c.Query("after"); afterStr != "" {
		cur, err := ParseCursor(afterStr)
		if err != nil {
			return p, err
		}
		p.After = &cur
	}

	return p, nil
}
