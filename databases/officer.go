package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartfir/fir-filing-api/models"
)

const officerName = "officers"

// OfficerDatabase contains the methods to use with the officer database
type OfficerDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Officer, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Officer, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (interface{}, error)
}

type officerDatabase struct {
	db DatabaseHelper
}

// NewOfficerDatabase initializes a new instance of officer database with the provided db connection
func NewOfficerDatabase(db DatabaseHelper) OfficerDatabase {
	return &officerDatabase{
		db: db,
	}
}

func (c *officerDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Officer, error) {
	officer := &models.Officer{}
	err := c.db.Collection(officerName).FindOne(ctx, filter, opts...).Decode(&officer)
	if err != nil {
		return nil, err
	}
	return officer, nil
}

func (c *officerDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Officer, error) {
	var officers []models.Officer
	cur, err := c.db.Collection(officerName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&officers)
	if err != nil {
		return nil, err
	}
	return officers, nil
}

func (c *officerDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	return c.db.Collection(officerName).InsertOne(ctx, document, opts...)
}
