package databases

import "go.mongodb.org/mongo-driver/mongo/options"

type mongoPaginate struct {
	limit int64
	page  int64
}

// NewMongoPaginate builds find options for a 1-indexed page of the given size
func NewMongoPaginate(limit, page int) *options.FindOptions {
	mp := &mongoPaginate{
		limit: int64(limit),
		page:  int64(page),
	}
	return mp.getPaginatedOpts()
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}
