package serviceerr

import "errors"

var ErrConflict = errors.New("already exists")
var ErrNotFound = errors.New("not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmptyCart = errors.New("cart is empty")
var ErrForbidden = errors.New("forbidden")
var ErrBadRequest = errors.New("malformed request body")
