package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartfir/fir-filing-api/models"
)

const citizenName = "users"

// CitizenDatabase contains the methods to use with the citizen database
type CitizenDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Citizen, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (interface{}, error)
}

type citizenDatabase struct {
	db DatabaseHelper
}

// NewCitizenDatabase initializes a new instance of citizen database with the provided db connection
func NewCitizenDatabase(db DatabaseHelper) CitizenDatabase {
	return &citizenDatabase{
		db: db,
	}
}

func (c *citizenDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Citizen, error) {
	citizen := &models.Citizen{}
	err := c.db.Collection(citizenName).FindOne(ctx, filter, opts...).Decode(&citizen)
	if err != nil {
		return nil, err
	}
	return citizen, nil
}

func (c *citizenDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	return c.db.Collection(citizenName).InsertOne(ctx, document, opts...)
}
