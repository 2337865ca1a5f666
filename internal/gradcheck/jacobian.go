package gradcheck

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gradix-ml/gradix/internal/autodiff"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// analyticalJacobian builds one Jacobian per checked input for the given
// output, one reverse-mode Grad call per output element.
//
// Every Grad call runs twice with the same one-hot seed; the two results
// must match bit for bit, which catches backward rules with hidden state.
func analyticalJacobian[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	out diffOutput,
	checked []checkedInput,
) ([][][]float64, error) {
	ins := make([]*tensor.RawTensor, len(checked))
	jacobians := make([][][]float64, len(checked))
	for i, c := range checked {
		ins[i] = c.tensor
		jacobians[i] = zeroMatrix(c.tensor.NumElements(), out.tensor.NumElements())
	}

	seed, err := tensor.ZerosRaw(out.tensor.Shape(), out.tensor.DType(), out.tensor.Device())
	if err != nil {
		return nil, errors.Wrap(err, "gradcheck: failed to create seed")
	}

	gradOpts := autodiff.GradOptions{
		GradOutputs: []*tensor.RawTensor{seed},
		RetainGraph: true,
		AllowUnused: true,
	}

	for k := 0; k < out.tensor.NumElements(); k++ {
		writeElem(seed, k, 1)

		first, err := backend.Grad([]*tensor.RawTensor{out.tensor}, ins, gradOpts)
		if err != nil {
			return nil, errors.Wrap(err, "gradcheck: analytical backward failed")
		}
		second, err := backend.Grad([]*tensor.RawTensor{out.tensor}, ins, gradOpts)
		if err != nil {
			return nil, errors.Wrap(err, "gradcheck: analytical backward failed")
		}

		for i := range checked {
			if !bitIdentical(first[i], second[i]) {
				return nil, errors.New("backward is not reentrant")
			}
			g := first[i]
			if g == nil {
				continue // unused input, column stays zero
			}
			if g.NumElements() != checked[i].tensor.NumElements() {
				return nil, errors.Errorf(
					"analytical gradient has incorrect size: expected %d elements for input %d, got %d",
					checked[i].tensor.NumElements(), checked[i].index, g.NumElements())
			}
			for j := 0; j < g.NumElements(); j++ {
				jacobians[i][j][k] = readElem(g, j)
			}
		}

		writeElem(seed, k, 0)
	}
	return jacobians, nil
}

// numericalJacobian estimates one Jacobian per checked input by central
// finite differences on the selected output.
//
// Each input scalar is perturbed by ±eps and restored afterwards, so the
// inputs are observably unchanged when the function returns. Probing runs
// under NoGrad to keep the tape clean.
func numericalJacobian[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	f Func,
	tensors []*tensor.RawTensor,
	checked []checkedInput,
	outIndex int,
	eps float64,
) [][][]float64 {
	eval := func() []float64 {
		var vals []float64
		backend.NoGrad(func() {
			out := f(tensors)[outIndex]
			vals = make([]float64, out.NumElements())
			for k := range vals {
				vals[k] = readElem(out, k)
			}
		})
		return vals
	}

	jacobians := make([][][]float64, len(checked))
	for i, c := range checked {
		in := c.tensor
		jac := zeroMatrix(in.NumElements(), 0)
		for j := 0; j < in.NumElements(); j++ {
			orig := readElem(in, j)

			writeElem(in, j, orig+eps)
			plus := eval()
			writeElem(in, j, orig-eps)
			minus := eval()
			writeElem(in, j, orig)

			row := make([]float64, len(plus))
			for k := range plus {
				row[k] = (plus[k] - minus[k]) / (2 * eps)
			}
			jac[j] = row
		}
		jacobians[i] = jac
	}
	return jacobians
}

func zeroMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// readElem reads a flat element of a floating-point tensor as float64.
func readElem(t *tensor.RawTensor, i int) float64 {
	switch t.DType() {
	case tensor.Float32:
		return float64(t.AsFloat32()[i])
	case tensor.Float64:
		return t.AsFloat64()[i]
	case tensor.Float16:
		return float64(tensor.Float16ToFloat32(t.AsFloat16()[i]))
	default:
		panic(fmt.Sprintf("gradcheck: cannot read %s element as float", t.DType()))
	}
}

// writeElem writes a flat element of a floating-point tensor.
func writeElem(t *tensor.RawTensor, i int, v float64) {
	switch t.DType() {
	case tensor.Float32:
		t.AsFloat32()[i] = float32(v)
	case tensor.Float64:
		t.AsFloat64()[i] = v
	case tensor.Float16:
		t.AsFloat16()[i] = tensor.Float32ToFloat16(float32(v))
	default:
		panic(fmt.Sprintf("gradcheck: cannot write %s element as float", t.DType()))
	}
}
