// Package fulfillment provides domain entities for recorded shipments. A
// Fulfillment captures which order lines shipped, from which fulfillment
// order, and the carrier tracking details. Fulfillments are created only
// through the recording use case, which validates quantities against the
// fulfillment order's remaining work first.
package fulfillment
