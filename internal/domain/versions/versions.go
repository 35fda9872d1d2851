// Package versions orders add-on version strings using the Mozilla toolkit
// version format and picks the predecessor a new upload is compared against.
package versions

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/addonhub/devhub/internal/domain"
)

// part is one dot-separated component: numberA stringB numberC stringD.
type part struct {
	a int
	b string
	c int
	d string
}

func parsePart(s string) part {
	if s == "*" {
		return part{a: math.MaxInt32}
	}

	var p part
	p.a, s = leadingInt(s)
	i := strings.IndexAny(s, "0123456789")
	if i < 0 {
		p.b = s
	} else {
		p.b, s = s[:i], s[i:]
		p.c, p.d = leadingInt(s)
	}
	if p.b == "+" {
		// "1+" is the same as "2pre".
		p.a++
		p.b = "pre"
	}
	return p
}

func leadingInt(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		n = math.MaxInt32
	}
	return n, s[i:]
}

// compareStrings orders version string parts; an empty string sorts after
// any non-empty one, so "1.0" is newer than "1.0pre".
func compareStrings(x, y string) int {
	switch {
	case x == y:
		return 0
	case x == "":
		return 1
	case y == "":
		return -1
	}
	return strings.Compare(x, y)
}

func compareInts(x, y int) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (p part) compare(o part) int {
	if c := compareInts(p.a, o.a); c != 0 {
		return c
	}
	if c := compareStrings(p.b, o.b); c != 0 {
		return c
	}
	if c := compareInts(p.c, o.c); c != 0 {
		return c
	}
	return compareStrings(p.d, o.d)
}

// Compare returns -1, 0 or 1 as version x is older than, equal to or newer
// than version y. Missing trailing parts count as zero, so "1" equals "1.0".
func Compare(x, y string) int {
	xs := strings.Split(x, ".")
	ys := strings.Split(y, ".")
	n := max(len(xs), len(ys))
	for i := 0; i < n; i++ {
		var xp, yp part
		if i < len(xs) {
			xp = parsePart(xs[i])
		}
		if i < len(ys) {
			yp = parsePart(ys[i])
		}
		if c := xp.compare(yp); c != 0 {
			return c
		}
	}
	return 0
}

// Target describes the package version being validated.
type Target struct {
	FileHash  string
	AddonGUID string
	Version   string
	Channel   domain.Channel
}

// FindPrevious picks the stored validation a new upload should be compared
// against: the most recently stored approved validation of the same add-on
// and channel whose version is strictly older than the target's.
func FindPrevious(candidates []domain.StoredValidation, target Target) (domain.StoredValidation, bool) {
	if target.AddonGUID == "" || target.Version == "" {
		return domain.StoredValidation{}, false
	}

	sorted := make([]domain.StoredValidation, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sequence > sorted[j].Sequence
	})

	for _, c := range sorted {
		switch {
		case !c.Approved,
			c.AddonGUID != target.AddonGUID,
			c.Channel != target.Channel,
			c.FileHash == target.FileHash,
			c.Version == "":
			continue
		}
		if Compare(c.Version, target.Version) < 0 {
			return c, true
		}
	}
	return domain.StoredValidation{}, false
}
