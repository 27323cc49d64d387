package api

import (
	"context"
	"net/http"
	"net/url"
)

// GetList fetches a collection endpoint.
func GetList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	return DecodeList[T](res)
}

// GetObject fetches a single-object endpoint. Null data yields nil.
func GetObject[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	return DecodeObject[T](res)
}

// Send posts payload with method and decodes the returned object.
func Send[T any](ctx context.Context, c *Client, method, path string, payload any) (*T, error) {
	body, err := JSONBody(payload)
	if err != nil {
		return nil, err
	}
	res, err := c.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return DecodeObject[T](res)
}

// Exec performs a call whose data is ignored.
func Exec(ctx context.Context, c *Client, method, path string, payload any) error {
	body, err := JSONBody(payload)
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, Request{Method: method, Path: path, Body: body})
	return err
}
