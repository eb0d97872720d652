package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrAttributeNotFound = errors.New("attribute value not found")
	ErrOutOfStock        = errors.New("out of stock")
)
