// A finite heterogeneous sequence, (T0, T1, ..).
package tuple

import "fmt"

// Tuple3 is a 3-element heterogeneous sequence.
type Tuple3[T0, T1, T2 any] struct {
	V0 T0
	V1 T1
	V2 T2
}

// New3 constructs a Tuple3 from its three elements.
func New3[T0, T1, T2 any](v0 T0, v1 T1, v2 T2) Tuple3[T0, T1, T2] {
	return Tuple3[T0, T1, T2]{v0, v1, v2}
}

func (t Tuple3[T0, T1, T2]) String() string { return fmt.Sprintf("(%v, %v, %v)", t.V0, t.V1, t.V2) }
