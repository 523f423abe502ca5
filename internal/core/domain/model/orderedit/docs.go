// Package orderedit provides domain entities for staged order editing
// sessions. An OrderEdit accumulates validated changes (add a variant, add a
// custom item, change a quantity, set a discount) without touching the order;
// committing resolves every staged change against the order in one
// all-or-nothing step via the edit committer domain service.
package orderedit
