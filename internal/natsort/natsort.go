// Package natsort implements natural order string comparison, in
// which runs of digits are compared by numeric value, so that "item2"
// sorts before "item10".
package natsort

// Compare returns -1 if a sorts before b in natural order, +1 if it
// sorts after, and 0 if they are equivalent.
//
// Whitespace before each compared character is ignored. Where both
// strings have a run of digits at the same position, the runs are
// compared as integers, unless either run begins with a '0', in which
// case they are compared digit by digit as fractional parts, so that
// "1.01" sorts before "1.1". All other bytes compare by value and a
// string that runs out first sorts first.
func Compare[S ~string | ~[]byte](a, b S) int {
	return compare(a, b, false)
}

// CompareFold is like [Compare] but ignores ASCII case.
func CompareFold[S ~string | ~[]byte](a, b S) int {
	return compare(a, b, true)
}

func compare[S ~string | ~[]byte](a, b S, fold bool) int {
	var ai, bi int
	for {
		for isSpace(at(a, ai)) {
			ai++
		}
		for isSpace(at(b, bi)) {
			bi++
		}

		ca, cb := at(a, ai), at(b, bi)
		if isDigit(ca) && isDigit(cb) {
			var r int
			if ca == '0' || cb == '0' {
				r = compareLeft(a, b, ai, bi)
			} else {
				r = compareRight(a, b, ai, bi)
			}
			if r != 0 {
				return r
			}
		}

		if ai >= len(a) && bi >= len(b) {
			return 0
		}

		if fold {
			ca, cb = upper(ca), upper(cb)
		}
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}

		ai++
		bi++
	}
}

// compareRight compares the integer digit runs starting at a[ai] and
// b[bi]. The longer run is the bigger number. For runs of equal length
// the first differing digit decides, which is remembered in bias until
// the lengths are known.
func compareRight[S ~string | ~[]byte](a, b S, ai, bi int) int {
	var bias int
	for i := 0; ; i++ {
		ca, cb := at(a, ai+i), at(b, bi+i)
		da, db := isDigit(ca), isDigit(cb)
		switch {
		case !da && !db:
			return bias
		case !da:
			return -1
		case !db:
			return 1
		case ca < cb:
			if bias == 0 {
				bias = -1
			}
		case ca > cb:
			if bias == 0 {
				bias = 1
			}
		}
	}
}

// compareLeft compares the digit runs starting at a[ai] and b[bi] as
// fractional parts, so the first differing digit decides.
func compareLeft[S ~string | ~[]byte](a, b S, ai, bi int) int {
	for i := 0; ; i++ {
		ca, cb := at(a, ai+i), at(b, bi+i)
		da, db := isDigit(ca), isDigit(cb)
		switch {
		case !da && !db:
			return 0
		case !da:
			return -1
		case !db:
			return 1
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		}
	}
}

// at returns s[i], or 0 past the end of s.
func at[S ~string | ~[]byte](s S, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
