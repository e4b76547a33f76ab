package catalog

import "errors"

var (
	errProductNotFound = errors.New("product not found")
	errToppingNotFound = errors.New("topping not found")
)

func IsNotFound(err error) bool {
	return errors.Is(err, errProductNotFound) || errors.Is(err, errToppingNotFound)
}
