package feature

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings and returns -1, 0, or
// 1 as a is less than, equal to, or greater than b.
//
// Policy: split on ".", compare segment-wise; segments compare numerically
// when both parse as integers, and lexically otherwise; a missing segment
// counts as zero. So "17" < "17.0.1", "15.4" > "15", and "11" < "101".
// Browser version schemes in the support table are purely numeric, so the
// lexical fallback only matters for unusual caller-supplied versions.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av, bv := "0", "0"
		if i < len(as) && as[i] != "" {
			av = as[i]
		}
		if i < len(bs) && bs[i] != "" {
			bv = bs[i]
		}

		ai, aerr := strconv.Atoi(av)
		bi, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			if ai != bi {
				if ai < bi {
					return -1
				}
				return 1
			}
			continue
		}

		// Lexical fallback for non-numeric segments.
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}

	return 0
}
