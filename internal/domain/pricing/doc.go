// Package pricing implements the batch-aware pricing and unit-conversion
// allocation engine for a retail point-of-sale system.
//
// Given a product snapshot composed of purchase batches (each with its own
// cost, selling price, wholesale price, expiry date and remaining quantity),
// the package determines what unit price to quote right now, how to consume
// stock across batches to satisfy a requested quantity or monetary amount,
// and how to convert between a product's natural unit and the unit the
// customer is transacting in.
//
// Key pieces:
//   - OrderingStrategy: deterministic FIFO/FEFO batch consumption order
//   - PriceResolver: effective display price and wholesale MOQ
//   - Engine: quantity-driven and amount-driven allocation with
//     MOQ/near-expiry wholesale gating and oversell fallback
//   - TotalStock/CheckAvailability: stock validation ahead of allocation
//
// Everything here is a pure, synchronous computation over caller-supplied
// data. Products and batches are read-only inputs: the engine advises how
// much would be drawn from which batch, and the inventory collaborator that
// owns the authoritative store applies the decrements after a sale commits.
package pricing
