package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	admindomain "github.com/testimonioya/feedback-services/api/internal/admin/domain"
	"github.com/testimonioya/feedback-services/api/internal/plan"
)

type fakeEndpointRepo struct {
	endpoints map[string]*admindomain.Endpoint
	created   []*admindomain.Endpoint
	updated   []*admindomain.Endpoint
}

func (f *fakeEndpointRepo) FindByTenant(ctx context.Context, tenantID string) ([]admindomain.Endpoint, error) {
	var out []admindomain.Endpoint
	for _, endpoint := range f.endpoints {
		if endpoint.TenantID == tenantID {
			out = append(out, *endpoint)
		}
	}
	return out, nil
}

func (f *fakeEndpointRepo) FindByID(ctx context.Context, id string) (*admindomain.Endpoint, error) {
	return f.endpoints[id], nil
}

func (f *fakeEndpointRepo) Create(ctx context.Context, endpoint *admindomain.Endpoint) error {
	endpoint.ID = "endpoint-new"
	f.created = append(f.created, endpoint)
	return nil
}

func (f *fakeEndpointRepo) Update(ctx context.Context, endpoint *admindomain.Endpoint) error {
	f.updated = append(f.updated, endpoint)
	return nil
}

func newEndpointFixture() (*fakeEndpointRepo, *fakePlanReader, *fakeQuota, EndpointService) {
	repo := &fakeEndpointRepo{endpoints: map[string]*admindomain.Endpoint{
		"endpoint-1": {
			ID:       "endpoint-1",
			TenantID: "tenant-1",
			Slug:     "aurora-testimonios",
			Name:     "Testimonios",
			Kind:     "collection",
			Active:   true,
		},
	}}
	tenants := &fakeTenantRepo{tenants: map[string]*admindomain.Tenant{
		"tenant-1": {ID: "tenant-1", UserID: "user-1"},
	}}
	plans := &fakePlanReader{tier: plan.TierPremium}
	quotas := &fakeQuota{denied: map[plan.Resource]bool{}}
	return repo, plans, quotas, NewEndpointService(repo, tenants, plans, quotas)
}

func TestCreateEndpointGeneratesSlug(t *testing.T) {
	repo, _, _, svc := newEndpointFixture()

	endpoint, err := svc.Create(context.Background(), "tenant-1", "user-1", CreateEndpointCommand{
		Name: "Sucursal Centro",
		Kind: "collection",
	})
	require.NoError(t, err)

	assert.True(t, endpoint.Active)
	assert.True(t, strings.HasPrefix(endpoint.Slug, "sucursal-centro-"), "slug %q", endpoint.Slug)
	require.Len(t, repo.created, 1)
}

func TestCreateEndpointUnifiedRequiresPremium(t *testing.T) {
	_, plans, _, svc := newEndpointFixture()
	plans.tier = plan.TierPro

	_, err := svc.Create(context.Background(), "tenant-1", "user-1", CreateEndpointCommand{
		Name: "Feedback",
		Kind: "unified",
	})
	assert.ErrorIs(t, err, ErrUpgradeRequired)

	plans.tier = plan.TierPremium
	_, err = svc.Create(context.Background(), "tenant-1", "user-1", CreateEndpointCommand{
		Name: "Feedback",
		Kind: "unified",
	})
	assert.NoError(t, err)
}

func TestCreateEndpointQuota(t *testing.T) {
	_, _, quotas, svc := newEndpointFixture()
	quotas.denied[plan.ResourceEndpoints] = true

	_, err := svc.Create(context.Background(), "tenant-1", "user-1", CreateEndpointCommand{
		Name: "Otro",
		Kind: "collection",
	})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestCreateEndpointValidation(t *testing.T) {
	_, _, _, svc := newEndpointFixture()

	tests := []struct {
		name string
		cmd  CreateEndpointCommand
	}{
		{name: "blank name", cmd: CreateEndpointCommand{Name: " ", Kind: "collection"}},
		{name: "bad kind", cmd: CreateEndpointCommand{Name: "X", Kind: "widget"}},
		{name: "promoter out of range", cmd: CreateEndpointCommand{Name: "X", Kind: "collection", PromoterThreshold: 11, PassiveThreshold: 7}},
		{name: "passive above promoter", cmd: CreateEndpointCommand{Name: "X", Kind: "collection", PromoterThreshold: 8, PassiveThreshold: 9}},
		{name: "http reviews url", cmd: CreateEndpointCommand{Name: "X", Kind: "collection", GoogleReviewsURL: "http://g.page/r/x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "tenant-1", "user-1", tt.cmd)
			assert.Error(t, err)
		})
	}
}

func TestCreateEndpointZeroThresholdsMeanDefaults(t *testing.T) {
	_, _, _, svc := newEndpointFixture()

	endpoint, err := svc.Create(context.Background(), "tenant-1", "user-1", CreateEndpointCommand{
		Name: "Feedback",
		Kind: "unified",
	})
	require.NoError(t, err)
	assert.Zero(t, endpoint.PromoterThreshold)
	assert.Zero(t, endpoint.PassiveThreshold)
}

func TestUpdateEndpointPartialUpdate(t *testing.T) {
	repo, _, _, svc := newEndpointFixture()

	endpoint, err := svc.Update(context.Background(), "endpoint-1", "user-1", UpdateEndpointCommand{
		Active: boolPtr(false),
		Name:   strPtr("Testimonios 2"),
	})
	require.NoError(t, err)

	assert.False(t, endpoint.Active)
	assert.Equal(t, "Testimonios 2", endpoint.Name)
	assert.Equal(t, "aurora-testimonios", endpoint.Slug, "renames never change the slug")
	require.Len(t, repo.updated, 1)
}

func TestUpdateEndpointOwnership(t *testing.T) {
	_, _, _, svc := newEndpointFixture()

	_, err := svc.Update(context.Background(), "endpoint-1", "someone-else", UpdateEndpointCommand{Active: boolPtr(false)})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Update(context.Background(), "missing", "user-1", UpdateEndpointCommand{Active: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEndpointsRequiresOwnership(t *testing.T) {
	_, _, _, svc := newEndpointFixture()

	_, err := svc.List(context.Background(), "tenant-1", "someone-else")
	assert.ErrorIs(t, err, ErrUnauthorized)

	endpoints, err := svc.List(context.Background(), "tenant-1", "user-1")
	require.NoError(t, err)
	assert.Len(t, endpoints, 1)
}
