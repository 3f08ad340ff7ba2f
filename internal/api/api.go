// Package api holds the thin domain modules mapping portal actions to backend
// endpoints. Modules do no business logic: they shape requests, call through
// the client wrapper, and normalize the backend's response variants at the
// boundary.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Doer is the slice of the transport client the domain modules depend on.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// ListQuery is the common pagination/filter query the list endpoints accept.
type ListQuery struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

func (q ListQuery) encode() string {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Keyword != "" {
		values.Set("keyword", q.Keyword)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// Page is the normalized list result. The backend answers list endpoints in
// two shapes, a bare JSON array or a {data,total} envelope; both normalize to
// this one type so nothing past the module boundary cares which it was.
type Page[T any] struct {
	Items []T   `json:"data"`
	Total int64 `json:"total"`
}

func decodePage[T any](raw json.RawMessage) (Page[T], error) {
	if len(raw) == 0 {
		return Page[T]{}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return Page[T]{}, fmt.Errorf("decoding list response: %w", err)
		}
		return Page[T]{Items: items, Total: int64(len(items))}, nil
	}

	var envelope Page[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Page[T]{}, fmt.Errorf("decoding list envelope: %w", err)
	}
	return envelope, nil
}

func fetchPage[T any](ctx context.Context, doer Doer, path string) (Page[T], error) {
	var raw json.RawMessage
	if err := doer.Get(ctx, path, &raw); err != nil {
		return Page[T]{}, err
	}
	return decodePage[T](raw)
}
