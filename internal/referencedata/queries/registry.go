// internal/referencedata/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"dealer-admin/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// Remote is the part of the dealership API client the queries need.
type Remote interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
}

// RequestFunc turns query params into the remote path and query string.
type RequestFunc func(params map[string]string) (string, url.Values, error)

// Definition describes one cacheable remote read and the tags it provides.
type Definition struct {
	Type    models.QueryType
	Tags    []models.Tag
	Request RequestFunc
}

var Registry = map[models.QueryType]Definition{
	models.QueryTypeBrands:        {Type: models.QueryTypeBrands, Tags: []models.Tag{models.TagBrand}, Request: Brands},
	models.QueryTypeModelsByBrand: {Type: models.QueryTypeModelsByBrand, Tags: []models.Tag{models.TagModel}, Request: ModelsByBrand},
	models.QueryTypeCities:        {Type: models.QueryTypeCities, Tags: []models.Tag{models.TagCity}, Request: Cities},
	models.QueryTypeReservations:  {Type: models.QueryTypeReservations, Tags: []models.Tag{models.TagReservation}, Request: Reservations},
	models.QueryTypeTestDrives:    {Type: models.QueryTypeTestDrives, Tags: []models.Tag{models.TagTestDrive}, Request: TestDrives},
}

// Lookup returns the definition for queryType.
func Lookup(queryType models.QueryType) (Definition, error) {
	def, exists := Registry[queryType]
	if !exists {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return def, nil
}

// Execute runs the query against remote and returns the envelope data as
// raw JSON.
func Execute(ctx context.Context, remote Remote, queryType models.QueryType, params map[string]string) ([]byte, error) {
	def, err := Lookup(queryType)
	if err != nil {
		return nil, err
	}
	path, query, err := def.Request(params)
	if err != nil {
		return nil, err
	}
	var data json.RawMessage
	if err := remote.Get(ctx, path, query, &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return data, nil
}
