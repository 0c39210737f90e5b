package yieldcurve

import (
	"fmt"
	"math"
)

// levelSignShare is the fraction of same-signed loadings required before the
// first component is labeled Level.
const levelSignShare = 0.90

// Interpret fixes the sign convention of every component and assigns the
// conventional yield-curve labels to the first three.
//
// Sign convention: each loading vector is flipped so its mean across
// maturities is non-negative, and the paired score series is flipped in
// tandem to preserve the projection identity. This makes output
// deterministic despite the sign ambiguity inherent to eigen-decomposition.
//
// Labeling is a shape heuristic evaluated per component, first match wins:
// the first component is Level when nearly all loadings share one sign, the
// second is Slope when the shortest and longest maturities load with
// opposite signs, and the third is Curvature when both ends share one sign
// against at least one interior maturity. A component failing its heuristic
// keeps the Unlabeled-N fallback; it is never forced into a canonical
// label. An ambiguous first component additionally surfaces a non-fatal
// warning for the caller to log or display.
func Interpret(cs ComponentSet) (ComponentSet, []Warning) {
	var warnings []Warning

	for i := range cs.Components {
		orientComponent(&cs.Components[i])
	}

	for i := range cs.Components {
		c := &cs.Components[i]
		switch c.Index {
		case 1:
			if share := dominantSignShare(c.Loadings); share >= levelSignShare {
				c.Label = LabelLevel
			} else {
				warnings = append(warnings, Warning{
					Code: WarnAmbiguousLevel,
					Message: fmt.Sprintf(
						"first component has only %.0f%% same-signed loadings, left unlabeled for manual review",
						share*100),
				})
			}
		case 2:
			first, last := c.Loadings[0], c.Loadings[len(c.Loadings)-1]
			if first*last < 0 {
				c.Label = LabelSlope
			}
		case 3:
			if isCurvatureShape(c.Loadings) {
				c.Label = LabelCurvature
			}
		}
	}

	return cs, warnings
}

// orientComponent flips the loading vector, and its score series in tandem,
// so the average loading across maturities is non-negative.
func orientComponent(c *Component) {
	sum := 0.0
	for _, w := range c.Loadings {
		sum += w
	}
	if sum >= 0 {
		return
	}
	for j := range c.Loadings {
		c.Loadings[j] = -c.Loadings[j]
	}
	for i := range c.Scores {
		c.Scores[i] = -c.Scores[i]
	}
}

// dominantSignShare returns the fraction of loadings carrying the majority
// sign. Exact zeros count toward neither sign.
func dominantSignShare(loadings []float64) float64 {
	if len(loadings) == 0 {
		return 0
	}
	pos, neg := 0, 0
	for _, w := range loadings {
		switch {
		case w > 0:
			pos++
		case w < 0:
			neg++
		}
	}
	return float64(max(pos, neg)) / float64(len(loadings))
}

// isCurvatureShape reports whether the two endpoint maturities share one
// sign while at least one interior maturity loads with the opposite sign.
func isCurvatureShape(loadings []float64) bool {
	n := len(loadings)
	if n < 3 {
		return false
	}
	first, last := loadings[0], loadings[n-1]
	if first*last <= 0 {
		return false
	}
	endSign := math.Signbit(first)
	for _, w := range loadings[1 : n-1] {
		if w != 0 && math.Signbit(w) != endSign {
			return true
		}
	}
	return false
}
