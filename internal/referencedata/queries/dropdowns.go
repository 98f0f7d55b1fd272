package queries

import (
	"fmt"
	"net/url"
)

func Brands(map[string]string) (string, url.Values, error) {
	return "/brand", nil, nil
}

func ModelsByBrand(params map[string]string) (string, url.Values, error) {
	brandID := params["brandId"]
	if brandID == "" {
		return "", nil, fmt.Errorf("%w: brandId", ErrMissingParam)
	}
	return "/model/model/brand/" + url.PathEscape(brandID), nil, nil
}

func Cities(map[string]string) (string, url.Values, error) {
	return "location/city", nil, nil
}
