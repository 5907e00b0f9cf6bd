package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the paging part of a list query.
type PaginationRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor"`

	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with the default applied.
func (p PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// After returns the id the requested page starts after, or "" for the
// first page.
func (p PaginationRequest) After() (string, error) {
	if p.Cursor == "" {
		return "", nil
	}

	c, err := DecodeCursor(p.Cursor)
	if err != nil {
		return "", err
	}

	return c.After, nil
}

// CursorData is what a cursor encodes: the id of the last item served.
// Lists are stable, so resuming after an id is deterministic.
type CursorData struct {
	After string `json:"a"`
}

// EncodeCursor returns the URL-safe encoding of c.
func EncodeCursor(c CursorData) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses an encoded cursor.
func DecodeCursor(encoded string) (CursorData, error) {
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return CursorData{}, ErrInvalidCursor
	}

	var c CursorData
	if err := json.Unmarshal(b, &c); err != nil || c.After == "" {
		return CursorData{}, ErrInvalidCursor
	}

	return c, nil
}

// PaginatedResponse is one page of a list.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// Paginate slices items into the page after the item whose id is after.
// An unknown after id yields an empty page. id extracts the cursor key.
func Paginate[T any](items []T, after string, limit int, id func(T) string) PaginatedResponse[T] {
	start := 0

	if after != "" {
		start = len(items)

		for i, it := range items {
			if id(it) == after {
				start = i + 1
				break
			}
		}
	}

	end := min(start+limit, len(items))

	page := PaginatedResponse[T]{Items: append([]T{}, items[start:end]...), Total: len(items)}
	if end < len(items) && end > start {
		page.HasMore = true
		page.NextCursor = EncodeCursor(CursorData{After: id(items[end-1])})
	}

	return page
}
