package app

import (
	"errors"

	"github.com/khrees2412/contactscout/internal/database"
	"github.com/khrees2412/contactscout/internal/search"
)

// Sentinel errors for common application errors
var (
	ErrNotFound        = database.ErrRunNotFound
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCaptcha         = search.ErrCaptcha
)
