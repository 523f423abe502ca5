// Package tax provides the store tax configuration aggregate. A TaxSetting
// carries the taxes-included flag, whether shipping is taxed, and the
// configured rates: one optional store default plus per-product overrides
// per value type. Rate resolution and tax arithmetic live in the tax
// calculator domain service.
package tax
