// Package batch implementa el ciclo de vida de lotes y tandas como funciones
// puras (estado actual + entrada -> nuevo estado o error). La persistencia y
// los efectos los ejecuta la capa de aplicación.
package batch

// NumTranches decide en cuántas tandas se parte un lote: 2 si el total de
// unidades no supera el umbral configurado, 3 si lo supera.
func NumTranches(units, threshold int) int {
	if units <= threshold {
		return 2
	}
	return 3
}

// SplitUnits reparte units en NumTranches partes: cada tanda recibe
// floor(units/n) y las primeras units mod n tandas reciben una unidad extra.
// La suma de las partes siempre es exactamente units y ninguna tanda difiere
// de otra en más de una unidad.
func SplitUnits(units, threshold int) []int {
	n := NumTranches(units, threshold)
	base := units / n
	rem := units % n
	parts := make([]int, n)
	for i := range parts {
		parts[i] = base
		if i < rem {
			parts[i]++
		}
	}
	return parts
}
