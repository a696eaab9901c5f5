package resolver

// levenshtein calcula la distancia de edición clásica entre dos strings
// (sobre runes, dos filas de DP).
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// similarity devuelve el ratio normalizado 0-100 entre dos strings ya
// normalizados: 100*(1 - dist/maxLen). Strings idénticos → 100.
func similarity(a, b string) float64 {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	d := levenshtein(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}
