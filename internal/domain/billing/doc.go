// Package billing contains the 3PL billing domain: billing periods, cost
// rates, storage ledger entries, aggregated cost line items and invoices.
//
// All monetary values use decimal.Decimal. Quantities are decimals as well so
// that pallet-weeks, cartons and per-unit charges share one arithmetic path.
package billing
