package memptr

import "strconv"

// maxDistance bounds the distance an Always verdict may carry. The aliasing
// lemma covers constant gaps below 2^31; verdicts stay a further bit
// narrower so callers can add access sizes to a distance without leaving
// the lemma's range.
const maxDistance = 1 << 30

// Verdict is the outcome of comparing two decomposed forms: either nothing
// is known about the address difference, or the difference is a fixed byte
// distance for every execution. The zero value is Unknown.
type Verdict struct {
	always   bool
	distance int32
}

// UnknownVerdict returns the verdict that claims nothing. It is always a
// sound answer.
func UnknownVerdict() Verdict {
	return Verdict{}
}

// AlwaysVerdict returns the verdict that two addresses are exactly distance
// bytes apart. A distance with abs(distance) >= 2^30 is a defect in the
// comparator, not a runtime condition, and panics.
func AlwaysVerdict(distance int32) Verdict {
	if distance <= -maxDistance || distance >= maxDistance {
		panic("memptr: verdict distance out of range")
	}
	return Verdict{always: true, distance: distance}
}

// IsUnknown reports whether the comparison proved nothing.
func (v Verdict) IsUnknown() bool {
	return !v.always
}

// IsAlwaysAt reports whether the verdict proves exactly distance bytes.
func (v Verdict) IsAlwaysAt(distance int32) bool {
	return v.always && v.distance == distance
}

// Distance returns the proven distance and panics on Unknown verdicts.
func (v Verdict) Distance() int32 {
	if !v.always {
		panic("memptr: Distance of Unknown verdict")
	}
	return v.distance
}

func (v Verdict) String() string {
	if !v.always {
		return "Unknown"
	}
	return "Always(" + strconv.FormatInt(int64(v.distance), 10) + ")"
}

// AliasingWith compares two decomposed forms and reports the provable byte
// distance (other minus f) between the underlying addresses. Any mismatch
// in the summand sequences proves nothing. Matching summands yield
// Always(other.con - f.con) when that difference is representable and
// inside the verdict range.
//
// Soundness rests on the lemma in the package documentation: with identical
// summands and a constant gap below 2^31, any safe2 discrepancy between the
// forms and the real addresses would push one of the two accesses out of
// bounds of the shared array.
func (f Form) AliasingWith(other Form) Verdict {
	if f.n != other.n {
		return UnknownVerdict()
	}
	for i := 0; i < f.n; i++ {
		if !f.summands[i].Equal(other.summands[i]) {
			return UnknownVerdict()
		}
	}
	distance := other.con.Sub(f.con)
	if distance.IsNaN() {
		return UnknownVerdict()
	}
	abs := distance.Abs()
	if abs.IsNaN() || abs.Value() >= maxDistance {
		return UnknownVerdict()
	}
	return AlwaysVerdict(distance.Value())
}
