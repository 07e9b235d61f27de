package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartfir/fir-filing-api/models"
)

const adminName = "admins"

// AdminDatabase contains the methods to use with the admin database
type AdminDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Admin, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Admin, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (interface{}, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) error
}

type adminDatabase struct {
	db DatabaseHelper
}

// NewAdminDatabase initializes a new instance of admin database with the provided db connection
func NewAdminDatabase(db DatabaseHelper) AdminDatabase {
	return &adminDatabase{
		db: db,
	}
}

func (c *adminDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Admin, error) {
	admin := &models.Admin{}
	err := c.db.Collection(adminName).FindOne(ctx, filter, opts...).Decode(&admin)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (c *adminDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Admin, error) {
	var admins []models.Admin
	cur, err := c.db.Collection(adminName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&admins)
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (c *adminDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (interface{}, error) {
	return c.db.Collection(adminName).InsertOne(ctx, document, opts...)
}

func (c *adminDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(adminName).UpdateOne(ctx, filter, update, opts...)
	return err
}
