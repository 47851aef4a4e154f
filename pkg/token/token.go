// Package token encodes and decodes the plain-text verification payload
// embedded in route QR codes. The format is consumed by checkpoint tooling
// and must round-trip losslessly: ROUTE_ID:<id>|ORDER_ID:<id>|DRIVER:<name>.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

const driverNone = "None"

// Payload identifies a transport route at a checkpoint.
type Payload struct {
	RouteID int64
	OrderID int64
	// Driver is the assigned driver's username, empty when unassigned.
	Driver string
}

// Encode renders the pipe-delimited wire form. An empty Driver is written as
// the literal "None".
func Encode(p Payload) string {
	driver := p.Driver
	if driver == "" {
		driver = driverNone
	}
	return fmt.Sprintf("ROUTE_ID:%d|ORDER_ID:%d|DRIVER:%s", p.RouteID, p.OrderID, driver)
}

// Decode parses the wire form produced by Encode.
func Decode(s string) (Payload, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return Payload{}, fmt.Errorf("token: expected 3 fields, got %d", len(parts))
	}

	routeRaw, ok := strings.CutPrefix(parts[0], "ROUTE_ID:")
	if !ok {
		return Payload{}, fmt.Errorf("token: missing ROUTE_ID field")
	}
	orderRaw, ok := strings.CutPrefix(parts[1], "ORDER_ID:")
	if !ok {
		return Payload{}, fmt.Errorf("token: missing ORDER_ID field")
	}
	driver, ok := strings.CutPrefix(parts[2], "DRIVER:")
	if !ok {
		return Payload{}, fmt.Errorf("token: missing DRIVER field")
	}

	routeID, err := strconv.ParseInt(routeRaw, 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("token: invalid route id %q: %w", routeRaw, err)
	}
	orderID, err := strconv.ParseInt(orderRaw, 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("token: invalid order id %q: %w", orderRaw, err)
	}

	if driver == driverNone {
		driver = ""
	}

	return Payload{RouteID: routeID, OrderID: orderID, Driver: driver}, nil
}
