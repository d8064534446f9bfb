// Package fitting implements the binding isotherms used by Bindfit and
// Bindsim together with the least squares and optimisation machinery that
// turns an isotherm into a fit.
//
// Every model follows the same two level scheme. For a trial set of binding
// constants K the isotherm predicts a design matrix of complex mole fractions
// (NMR) or concentrations (UV-Vis), one column per complex species. The
// response coefficients for each observed column are then found by linear
// least squares, and the residual sum of squares of that linear problem is
// the objective that Nelder-Mead minimises over log10(K).
//
// Responses are arranged column-major throughout: Y[c][i] is the i-th
// titration point of the c-th observed response.
package fitting
