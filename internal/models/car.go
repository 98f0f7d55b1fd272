// internal/models/car.go
package models

import "time"

// BilingualText is a parallel Arabic/English value. Both sides are required
// wherever a schema accepts one.
type BilingualText struct {
	Ar string `json:"ar"`
	En string `json:"en"`
}

type CarStatus string

const (
	CarStatusNew       CarStatus = "new"
	CarStatusUsed      CarStatus = "used"
	CarStatusCertified CarStatus = "certified"
)

// CarMainInfo is the first step of a car listing.
type CarMainInfo struct {
	Name        BilingualText `json:"name"`
	Description BilingualText `json:"description"`
	BrandID     string        `json:"brandId"`
	ModelID     string        `json:"modelId"`
	Price       float64       `json:"price"`
	IsOffer     bool          `json:"isOffer"`
	OfferPrice  *float64      `json:"offerPrice,omitempty"`
	Status      CarStatus     `json:"status,omitempty"`
	IsPublished bool          `json:"isPublished"`
	VideoURL    string        `json:"videoUrl,omitempty"`
	Iframe      string        `json:"iframe,omitempty"`
}

type CarSpecs struct {
	Variants []Variant `json:"variants"`
}

type CarSeo struct {
	MetaTitle       BilingualText `json:"metaTitle"`
	MetaDescription BilingualText `json:"metaDescription"`
	Slug            string        `json:"slug"`
	Keywords        []string      `json:"keywords,omitempty"`
}

// Car is a finalized listing as returned by the dealership API.
type Car struct {
	ID string `json:"id"`
	CarMainInfo
	Variants  []Variant `json:"variants,omitempty"`
	Seo       *CarSeo   `json:"seo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CarRef is the car summary embedded in reservations and test drives.
type CarRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
