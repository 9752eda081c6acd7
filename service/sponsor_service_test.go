package service

import (
	"context"
	"testing"

	"starsbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupSponsorServiceMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockSponsorRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSponsorRepo := new(MockSponsorRepository)

	mockUoW.SetRepositories(nil, nil, nil, mockSponsorRepo, nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockUoW, mockFactory, mockSponsorRepo
}

func TestSponsorService_CheckAccess_NoSponsorsConfigured(t *testing.T) {
	_, mockFactory, mockSponsorRepo := setupSponsorServiceMocks()

	service := NewSponsorService(mockFactory)

	mockSponsorRepo.On("StatusForUser", mock.Anything, int64(123)).Return([]*models.SponsorStatus{}, nil)

	ok, err := service.CheckAccess(context.Background(), 123)

	assert.NoError(t, err)
	assert.True(t, ok, "an empty sponsor set passes unconditionally")
}

func TestSponsorService_CheckAccess_OneUnconfirmedBlocks(t *testing.T) {
	_, mockFactory, mockSponsorRepo := setupSponsorServiceMocks()

	service := NewSponsorService(mockFactory)

	statuses := []*models.SponsorStatus{
		{Sponsor: models.Sponsor{ID: 1, ChannelName: "News"}, Subscribed: true},
		{Sponsor: models.Sponsor{ID: 2, ChannelName: "Deals"}, Subscribed: false},
	}
	mockSponsorRepo.On("StatusForUser", mock.Anything, int64(123)).Return(statuses, nil)

	ok, err := service.CheckAccess(context.Background(), 123)

	assert.NoError(t, err)
	assert.False(t, ok)

	err = service.RequireAccess(context.Background(), 123)
	assert.ErrorIs(t, err, ErrSponsorGateBlocked)
}

func TestSponsorService_ConfirmAll(t *testing.T) {
	mockUoW, mockFactory, mockSponsorRepo := setupSponsorServiceMocks()

	service := NewSponsorService(mockFactory)

	sponsors := []*models.Sponsor{
		{ID: 1, ChannelName: "News"},
		{ID: 2, ChannelName: "Deals"},
	}

	mockUoW.On("Commit").Return(nil)
	mockSponsorRepo.On("List", mock.Anything).Return(sponsors, nil)
	mockSponsorRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(sub *models.SponsorSubscription) bool {
		return sub.UserID == int64(123) && sub.Subscribed
	})).Return(nil).Twice()

	err := service.ConfirmAll(context.Background(), 123)

	assert.NoError(t, err)
	mockSponsorRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestSponsorService_AddSponsor_Validation(t *testing.T) {
	_, mockFactory, mockSponsorRepo := setupSponsorServiceMocks()

	service := NewSponsorService(mockFactory)

	_, err := service.AddSponsor(context.Background(), "", "", "https://t.me/chan")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.AddSponsor(context.Background(), "Chan", "@chan", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockSponsorRepo.AssertNotCalled(t, "Add")
}
