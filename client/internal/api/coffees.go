package api

import (
	"context"
	"net/http"

	"github.com/gaboelnuevo/cofi-app/client/internal/types"
)

var epGetCoffees = define("getCoffees", http.MethodGet, "/coffees")

// GetCoffees lists the coffees shown on the explore deck.
func GetCoffees(ctx context.Context, d Doer) (*types.Response, error) {
	return do(ctx, d, epGetCoffees, nil, nil, nil)
}
