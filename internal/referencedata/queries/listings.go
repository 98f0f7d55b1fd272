package queries

import (
	"fmt"
	"net/url"
	"strconv"
)

func Reservations(params map[string]string) (string, url.Values, error) {
	page, err := positive(params, "page", 1)
	if err != nil {
		return "", nil, err
	}
	limit, err := positive(params, "limit", 10)
	if err != nil {
		return "", nil, err
	}
	return "/reservation", url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}, nil
}

func TestDrives(params map[string]string) (string, url.Values, error) {
	page, err := positive(params, "page", 1)
	if err != nil {
		return "", nil, err
	}
	return "/test-drive", url.Values{"page": {strconv.Itoa(page)}}, nil
}

func positive(params map[string]string, name string, def int) (int, error) {
	raw, ok := params[name]
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return n, nil
}
