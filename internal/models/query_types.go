// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeBrands        QueryType = "brands"
	QueryTypeModelsByBrand QueryType = "models_by_brand"
	QueryTypeCities        QueryType = "cities"
	QueryTypeReservations  QueryType = "reservations"
	QueryTypeTestDrives    QueryType = "test_drives"
)

// Tag groups cached query results so a mutation can invalidate them.
type Tag string

const (
	TagBrand       Tag = "Brand"
	TagModel       Tag = "Model"
	TagCity        Tag = "City"
	TagReservation Tag = "Reservation"
	TagTestDrive   Tag = "TestDrive"
)
