package sema

import (
	"strconv"

	"github.com/pacedproton/medialang/ast"
)

// parseOutletIDLit parses the integer text of a NumberLit reference site
// (BASED_ON, predecessor/successor, link endpoints, DATA FOR, ...).
func parseOutletIDLit(n *ast.NumberLit) (int64, bool) {
	v, err := strconv.ParseInt(n.Text, 10, 64)
	return v, err == nil
}

func parseFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	return v, err == nil
}
