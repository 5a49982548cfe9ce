package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var errEmptyID = errors.New("ad id is required")

// ListAds returns one page of approved ads.
func (c *Client) ListAds(ctx context.Context, p ListParams) ([]Ad, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Category != "" {
		q.Set("category", CategoryName(p.Category))
	}
	if p.Governorate != "" {
		q.Set("governorate", p.Governorate)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}

	env, err := c.do(ctx, request{method: http.MethodGet, path: "/api/mobile/advertisements", query: q})
	if err != nil {
		return nil, err
	}
	var ads []Ad
	if err := decodeData(env, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// GetAd fetches one ad.
func (c *Client) GetAd(ctx context.Context, id string) (*Ad, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errEmptyID
	}
	env, err := c.do(ctx, request{method: http.MethodGet, path: "/api/mobile/advertisements/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	var ad Ad
	if err := decodeData(env, &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}

// CreateAd posts a new ad. It needs a session; without a token it fails
// with ErrNoToken and sends nothing.
func (c *Client) CreateAd(ctx context.Context, ad NewAd) (*Ad, error) {
	ad.Category = CategoryName(ad.Category)
	env, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/mobile/advertisements",
		body:   ad,
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	var created Ad
	if err := decodeData(env, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// MyAds lists the signed-in user's ads.
func (c *Client) MyAds(ctx context.Context, page, limit int) ([]Ad, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	env, err := c.do(ctx, request{method: http.MethodGet, path: "/api/mobile/ads/user", query: q, auth: true})
	if err != nil {
		return nil, err
	}
	var ads []Ad
	if err := decodeData(env, &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// UpdateAd changes some fields of one of the user's ads.
func (c *Client) UpdateAd(ctx context.Context, id string, u AdUpdate) (*Ad, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errEmptyID
	}
	env, err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/mobile/ads/" + url.PathEscape(id),
		body:   u,
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	var ad Ad
	if err := decodeData(env, &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}

// DeleteAd removes one of the user's ads.
func (c *Client) DeleteAd(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errEmptyID
	}
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/api/mobile/ads/" + url.PathEscape(id),
		auth:   true,
	})
	return err
}
