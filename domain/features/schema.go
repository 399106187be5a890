package features

import (
	"math"
	"strconv"

	"lotogrid/domain/core"
)

// Feature indices into a Vector. The order is the documented output schema;
// every vector in a run carries exactly these features in exactly this order.
const (
	CentroidRow = iota
	CentroidCol
	Dispersion
	Q1
	Q2
	Q3
	Q4
	BorderCount
	CornerCount
	RowStd
	ColStd
	RowMin
	RowMax
	ColMin
	ColMax
	Adjacencies4
	Adjacencies8
	Connectivity4
	Connectivity8
	Inertia
	Eccentricity
	Compactness
	SymmetryHorizontal
	SymmetryVertical
	Ring1
	Ring2
	Ring3

	// Count is the schema width, not a feature.
	Count
)

var names = [Count]string{
	CentroidRow:        "centroid_row",
	CentroidCol:        "centroid_col",
	Dispersion:         "dispersion",
	Q1:                 "q1",
	Q2:                 "q2",
	Q3:                 "q3",
	Q4:                 "q4",
	BorderCount:        "border_count",
	CornerCount:        "corner_count",
	RowStd:             "row_std",
	ColStd:             "col_std",
	RowMin:             "row_min",
	RowMax:             "row_max",
	ColMin:             "col_min",
	ColMax:             "col_max",
	Adjacencies4:       "adjacencies_4",
	Adjacencies8:       "adjacencies_8",
	Connectivity4:      "connectivity_4",
	Connectivity8:      "connectivity_8",
	Inertia:            "inertia",
	Eccentricity:       "eccentricity",
	Compactness:        "compactness",
	SymmetryHorizontal: "symmetry_horizontal",
	SymmetryVertical:   "symmetry_vertical",
	Ring1:              "ring1",
	Ring2:              "ring2",
	Ring3:              "ring3",
}

var indexByName = func() map[string]int {
	m := make(map[string]int, Count)
	for i, n := range names {
		m[n] = i
	}
	return m
}()

// Names returns the fixed feature schema in documented order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Name returns the feature name for an index.
func Name(idx int) string {
	return names[idx]
}

// Index resolves a feature name to its schema index.
func Index(name string) (int, bool) {
	idx, ok := indexByName[name]
	return idx, ok
}

// Vector is one draw's feature values, aligned with Names(). Eccentricity
// may be +Inf when the draw's column spread is zero; every other entry is
// finite for a valid draw.
type Vector []float64

// NewVector allocates a schema-width vector.
func NewVector() Vector {
	return make(Vector, Count)
}

// MarshalJSON renders non-finite entries as null; encoding/json rejects
// Inf and NaN outright. The eccentricity sentinel is the only producer of
// such values for a valid draw.
func (v Vector) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(v)*8)
	buf = append(buf, '[')
	for i, val := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsInf(val, 0) || math.IsNaN(val) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, val, 'g', -1, 64)
	}
	buf = append(buf, ']')
	return buf, nil
}

// AsMap renders the vector as a name-keyed map for serialization.
func (v Vector) AsMap() map[string]float64 {
	m := make(map[string]float64, Count)
	for i, val := range v {
		m[names[i]] = val
	}
	return m
}

// Validate checks the schema invariant on a vector.
func (v Vector) Validate() error {
	if len(v) != Count {
		return core.SchemaMismatchError("feature vector has wrong width")
	}
	for i, val := range v {
		if math.IsNaN(val) {
			return core.DomainErrorf("feature %s is NaN", names[i])
		}
	}
	return nil
}
