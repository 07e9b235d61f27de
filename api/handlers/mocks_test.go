package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartfir/fir-filing-api/models"
	"github.com/smartfir/fir-filing-api/storage"
)

// MockCitizenDatabase is a mock for databases.CitizenDatabase
type MockCitizenDatabase struct {
	mock.Mock
}

func (m *MockCitizenDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Citizen, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Citizen), args.Error(1)
}

func (m *MockCitizenDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

// MockAdminDatabase is a mock for databases.AdminDatabase
type MockAdminDatabase struct {
	mock.Mock
}

func (m *MockAdminDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Admin, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

func (m *MockAdminDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Admin, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Admin), args.Error(1)
}

func (m *MockAdminDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

func (m *MockAdminDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	args := m.Called(ctx, filter, update)
	return args.Error(0)
}

// MockOfficerDatabase is a mock for databases.OfficerDatabase
type MockOfficerDatabase struct {
	mock.Mock
}

func (m *MockOfficerDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Officer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Officer), args.Error(1)
}

func (m *MockOfficerDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Officer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Officer), args.Error(1)
}

func (m *MockOfficerDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

// MockReportDatabase is a mock for databases.ReportDatabase
type MockReportDatabase struct {
	mock.Mock
}

func (m *MockReportDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Report, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Report, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

func (m *MockReportDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	args := m.Called(ctx, filter, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) ([]models.CategoryCount, error) {
	args := m.Called(ctx, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryCount), args.Error(1)
}

// MockUploader is a mock for storage.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, file io.Reader) (storage.StoredFile, error) {
	args := m.Called(ctx, file)
	return args.Get(0).(storage.StoredFile), args.Error(1)
}

func (m *MockUploader) Destroy(ctx context.Context, publicID, resourceType string) error {
	args := m.Called(ctx, publicID, resourceType)
	return args.Error(0)
}
