// Package irpf turns the yearly B3 investor reports into the data needed to
// fill the "Bens e Direitos" section of the Brazilian income-tax declaration
// (IRPF).
//
// The core functionalities include:
//   - Asset Model: a closed set of B3 asset kinds (stocks, BDRs, listed
//     funds, fixed income, treasury bonds) with their IRPF group/code and
//     declaration description.
//   - Inventory Accounting: folding position snapshots and dated trades into
//     one investment per asset, with running weighted-average cost and
//     realized gains on disposals.
//   - Carry-Forward: a report generated for one fiscal year can be read back
//     the next year to seed opening quantities and declared amounts.
//
// Sheet parsing lives in the b3 subpackage, report emission in render, and
// the CLI wiring in cmd. This package holds the domain logic only, so that
// every figure in the final report can be traced to a position row or a
// trade.
package irpf
