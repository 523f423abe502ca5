package services

import (
	"fmt"

	"ordercore/internal/core/domain/model/fulfillmentorder"
	"ordercore/internal/core/domain/model/kernel"
	"ordercore/internal/pkg/errs"
)

// RoutingPolicy selects the location-assignment strategy.
type RoutingPolicy int

const (
	RoutingPolicyUnknown RoutingPolicy = iota

	// RoutingPolicyMinimizeLocations covers the requested lines with as
	// few locations as possible (greedy set-cover heuristic, not an exact
	// optimum).
	RoutingPolicyMinimizeLocations

	// RoutingPolicySingleLocationOnly requires one location to satisfy
	// every line; otherwise everything is unfulfillable.
	RoutingPolicySingleLocationOnly
)

// Validate checks if the RoutingPolicy is valid.
func (p RoutingPolicy) Validate() error {
	if p != RoutingPolicyMinimizeLocations && p != RoutingPolicySingleLocationOnly {
		return errs.NewValueIsInvalidErrorWithCause("routing policy",
			fmt.Errorf("%d is not a valid routing policy", p))
	}
	return nil
}

// String returns the lowercase name of the routing policy.
func (p RoutingPolicy) String() string {
	switch p {
	case RoutingPolicyMinimizeLocations:
		return "minimize_locations"
	case RoutingPolicySingleLocationOnly:
		return "single_location_only"
	default:
		return "unknown"
	}
}

// RoutingLine is one requested line to route: the order line it mirrors, the
// variant to pick, and the quantity.
type RoutingLine struct {
	OrderLineItemID kernel.ID
	VariantID       *kernel.ID
	Quantity        int
}

// RouteRequest describes a routing run for one order.
type RouteRequest struct {
	Policy         RoutingPolicy
	DeliveryMethod fulfillmentorder.ExpectedDeliveryMethod
	Destination    fulfillmentorder.Destination
	Lines          []RoutingLine
}

// LocationStock is a read-only inventory snapshot for one location: its
// routing priority (lower wins ties) and available quantity per variant id.
type LocationStock struct {
	LocationID kernel.ID
	Priority   int
	Available  map[int64]int
}

// RoutingResult holds the proposed assignments. Every requested line lands
// in exactly one bucket: a fulfillment order or the unfulfillable list.
type RoutingResult struct {
	FulfillmentOrders []*fulfillmentorder.FulfillmentOrder
	Unfulfillable     []RoutingLine
}

// FulfillmentOrderRouter is a domain service proposing which location
// fulfills which order lines.
//
// Key properties:
//   - a line is assigned whole to a single location with sufficient
//     available inventory, never split
//   - lines no location can supply are reported as unfulfillable, not
//     failed
//   - routing reads inventory snapshots and never mutates stock; the
//     proposal reserves nothing
//
// Ties between equally covering locations break by configured priority
// (lower value wins), then by lowest location id, so routing is
// deterministic for a given snapshot.
type FulfillmentOrderRouter struct{}

// NewFulfillmentOrderRouter creates a new FulfillmentOrderRouter instance.
func NewFulfillmentOrderRouter() FulfillmentOrderRouter {
	return FulfillmentOrderRouter{}
}

// Route proposes fulfillment orders for the requested lines. The returned
// aggregates carry no identifiers yet; the caller allocates and assigns them
// before persisting.
func (r FulfillmentOrderRouter) Route(
	storeID kernel.StoreID,
	orderID kernel.ID,
	request RouteRequest,
	stocks []LocationStock,
) (RoutingResult, error) {
	if err := storeID.Validate(); err != nil {
		return RoutingResult{}, err
	}
	if err := orderID.Validate(); err != nil {
		return RoutingResult{}, err
	}
	if err := request.Policy.Validate(); err != nil {
		return RoutingResult{}, err
	}
	if err := request.DeliveryMethod.Validate(); err != nil {
		return RoutingResult{}, err
	}
	if len(request.Lines) == 0 {
		return RoutingResult{}, errs.NewValueIsRequiredError("routing lines")
	}
	for _, line := range request.Lines {
		if line.Quantity <= 0 {
			return RoutingResult{}, errs.NewValueIsInvalidErrorWithCause("routing line quantity",
				fmt.Errorf("%d is not greater than 0", line.Quantity))
		}
	}

	var assignments map[int64][]RoutingLine
	var unfulfillable []RoutingLine
	switch request.Policy {
	case RoutingPolicySingleLocationOnly:
		assignments, unfulfillable = r.routeSingleLocation(request.Lines, stocks)
	default:
		assignments, unfulfillable = r.routeMinimizeLocations(request.Lines, stocks)
	}

	result := RoutingResult{Unfulfillable: unfulfillable}
	for _, stock := range stocks {
		lines, ok := assignments[stock.LocationID.Int64()]
		if !ok {
			continue
		}

		foLines := make([]*fulfillmentorder.LineItem, 0, len(lines))
		for _, line := range lines {
			foLine, err := fulfillmentorder.NewLineItem(line.OrderLineItemID, line.VariantID, line.Quantity)
			if err != nil {
				return RoutingResult{}, err
			}
			foLines = append(foLines, foLine)
		}

		fo, err := fulfillmentorder.NewFulfillmentOrder(storeID, orderID, stock.LocationID,
			request.DeliveryMethod, request.Destination, foLines)
		if err != nil {
			return RoutingResult{}, err
		}
		result.FulfillmentOrders = append(result.FulfillmentOrders, fo)
	}
	return result, nil
}

// routeMinimizeLocations runs the greedy set-cover heuristic: repeatedly
// pick the location that can satisfy the most still-unassigned lines,
// breaking ties by priority then lowest location id.
func (r FulfillmentOrderRouter) routeMinimizeLocations(lines []RoutingLine, stocks []LocationStock) (map[int64][]RoutingLine, []RoutingLine) {
	remaining := append([]RoutingLine(nil), lines...)
	available := copyAvailability(stocks)
	assignments := make(map[int64][]RoutingLine)

	for len(remaining) > 0 {
		var best *LocationStock
		var bestCover []int
		for i := range stocks {
			cover := coverableLines(remaining, available[stocks[i].LocationID.Int64()])
			if len(cover) == 0 {
				continue
			}
			if best == nil || betterCandidate(len(cover), stocks[i], len(bestCover), *best) {
				best = &stocks[i]
				bestCover = cover
			}
		}
		if best == nil {
			break
		}

		locationKey := best.LocationID.Int64()
		covered := make(map[int]bool, len(bestCover))
		for _, idx := range bestCover {
			line := remaining[idx]
			assignments[locationKey] = append(assignments[locationKey], line)
			if line.VariantID != nil {
				available[locationKey][line.VariantID.Int64()] -= line.Quantity
			}
			covered[idx] = true
		}

		next := remaining[:0]
		for i, line := range remaining {
			if !covered[i] {
				next = append(next, line)
			}
		}
		remaining = next
	}

	return assignments, remaining
}

// routeSingleLocation requires one location to satisfy every line
// simultaneously; candidates tie-break by priority then lowest id.
func (r FulfillmentOrderRouter) routeSingleLocation(lines []RoutingLine, stocks []LocationStock) (map[int64][]RoutingLine, []RoutingLine) {
	available := copyAvailability(stocks)

	var best *LocationStock
	for i := range stocks {
		cover := coverableLines(lines, available[stocks[i].LocationID.Int64()])
		if len(cover) != len(lines) {
			continue
		}
		if best == nil || betterCandidate(len(lines), stocks[i], len(lines), *best) {
			best = &stocks[i]
		}
	}
	if best == nil {
		return nil, lines
	}

	return map[int64][]RoutingLine{best.LocationID.Int64(): lines}, nil
}

// coverableLines returns the indices of lines the given availability can
// satisfy simultaneously, walking lines in request order. Lines without a
// backing variant have no inventory anywhere and are never coverable.
func coverableLines(lines []RoutingLine, available map[int64]int) []int {
	budget := make(map[int64]int, len(available))
	for variant, qty := range available {
		budget[variant] = qty
	}

	var cover []int
	for i, line := range lines {
		if line.VariantID == nil {
			continue
		}
		variant := line.VariantID.Int64()
		if budget[variant] >= line.Quantity {
			budget[variant] -= line.Quantity
			cover = append(cover, i)
		}
	}
	return cover
}

func copyAvailability(stocks []LocationStock) map[int64]map[int64]int {
	out := make(map[int64]map[int64]int, len(stocks))
	for _, stock := range stocks {
		inner := make(map[int64]int, len(stock.Available))
		for variant, qty := range stock.Available {
			inner[variant] = qty
		}
		out[stock.LocationID.Int64()] = inner
	}
	return out
}

// betterCandidate reports whether candidate beats current: more covered
// lines first, then lower priority value, then lower location id.
func betterCandidate(candidateCover int, candidate LocationStock, currentCover int, current LocationStock) bool {
	if candidateCover != currentCover {
		return candidateCover > currentCover
	}
	if candidate.Priority != current.Priority {
		return candidate.Priority < current.Priority
	}
	return candidate.LocationID.Int64() < current.LocationID.Int64()
}
