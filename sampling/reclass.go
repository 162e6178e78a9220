package sampling

// ReclassTarget returns a copy of target with every value found in recode
// replaced by its mapping. All replacements read the original values, so
// chains such as {1: 2, 2: 3} do not cascade.
func ReclassTarget(target []int, recode map[int]int) []int {
	out := make([]int, len(target))
	for i, v := range target {
		if to, ok := recode[v]; ok {
			out[i] = to
			continue
		}
		out[i] = v
	}
	return out
}
