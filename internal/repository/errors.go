package repository

import "errors"

// ErrNoFetcher indicates no image source can serve the URL
var ErrNoFetcher = errors.New("no image source configured")
