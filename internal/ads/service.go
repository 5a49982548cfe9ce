// Package ads holds the listing, posting and owner actions on top of the
// API client.
package ads

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mafqudat/mafqudat/internal/api"
)

// DefaultPageSize is the number of ads requested per page.
const DefaultPageSize = 10

// Client is the subset of the API client the Service uses.
type Client interface {
	ListAds(ctx context.Context, p api.ListParams) ([]api.Ad, error)
	GetAd(ctx context.Context, id string) (*api.Ad, error)
	CreateAd(ctx context.Context, ad api.NewAd) (*api.Ad, error)
	MyAds(ctx context.Context, page, limit int) ([]api.Ad, error)
	UpdateAd(ctx context.Context, id string, u api.AdUpdate) (*api.Ad, error)
	DeleteAd(ctx context.Context, id string) error
}

// Invalidator clears the session after the server rejects the token.
// session.Manager satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Page is one page of a listing.
type Page struct {
	Filter Filter
	Number int
	Ads    []api.Ad
	// Last is set when the server returned fewer ads than requested.
	Last bool
	// Mine marks a listing of the user's own ads.
	Mine bool
}

// Service runs ad operations.
type Service struct {
	client   Client
	session  Invalidator
	log      *zap.Logger
	pageSize int
}

// NewService creates a Service. A nil logger discards output.
func NewService(client Client, session Invalidator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, session: session, log: log, pageSize: DefaultPageSize}
}

// SetPageSize changes how many ads each page requests.
func (s *Service) SetPageSize(n int) {
	if n > 0 {
		s.pageSize = n
	}
}

// List returns the first page matching f.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	return s.list(ctx, f, 1)
}

// Next fetches the page after p with the same filter.
func (s *Service) Next(ctx context.Context, p *Page) (*Page, error) {
	if p.Mine {
		return s.mine(ctx, p.Number+1)
	}
	return s.list(ctx, p.Filter, p.Number+1)
}

func (s *Service) list(ctx context.Context, f Filter, n int) (*Page, error) {
	ads, err := s.client.ListAds(ctx, f.params(n, s.pageSize))
	if err != nil {
		return nil, s.check(ctx, err)
	}
	s.log.Debug("ads listed", zap.Int("page", n), zap.Int("count", len(ads)))
	return &Page{Filter: f, Number: n, Ads: ads, Last: len(ads) < s.pageSize}, nil
}

// Mine returns the first page of the user's own ads.
func (s *Service) Mine(ctx context.Context) (*Page, error) {
	return s.mine(ctx, 1)
}

func (s *Service) mine(ctx context.Context, n int) (*Page, error) {
	ads, err := s.client.MyAds(ctx, n, s.pageSize)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return &Page{Number: n, Ads: ads, Last: len(ads) < s.pageSize, Mine: true}, nil
}

// Get fetches one ad.
func (s *Service) Get(ctx context.Context, id string) (*api.Ad, error) {
	ad, err := s.client.GetAd(ctx, id)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return ad, nil
}

// Create validates d and posts it.
func (s *Service) Create(ctx context.Context, d Draft) (*api.Ad, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ad, err := s.client.CreateAd(ctx, d.NewAd())
	if err != nil {
		return nil, s.check(ctx, err)
	}
	s.log.Info("ad created", zap.String("id", ad.ID), zap.String("type", ad.Type))
	return ad, nil
}

// Delete removes one of the user's ads.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteAd(ctx, id); err != nil {
		return s.check(ctx, err)
	}
	s.log.Info("ad deleted", zap.String("id", id))
	return nil
}

// MarkResolved flags one of the user's ads as resolved.
func (s *Service) MarkResolved(ctx context.Context, id string) (*api.Ad, error) {
	resolved := true
	ad, err := s.client.UpdateAd(ctx, id, api.AdUpdate{IsResolved: &resolved})
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return ad, nil
}

// check turns an unauthorized response into an expired session.
func (s *Service) check(ctx context.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) && s.session != nil {
		s.log.Warn("token rejected", zap.Error(err))
		return s.session.Invalidate(ctx)
	}
	return err
}
