package gradcheck

import (
	"github.com/pkg/errors"

	"github.com/gradix-ml/gradix/internal/autodiff"
	"github.com/gradix-ml/gradix/internal/tensor"
)

// GradGradCheck verifies second derivatives: it wraps the first-order
// gradient computation
//
//	g(inputs, gradOutputs) = Grad(f(inputs), inputs, gradOutputs, CreateGraph)
//
// into a function of both the original inputs and the gradient seeds, and
// runs GradCheck on it. The seeds become checked inputs too, which
// verifies that the backward pass is linear in its incoming gradient.
//
// A nil gradOutputs seeds every differentiable output with ones.
func GradGradCheck[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	f Func,
	inputs []Var,
	gradOutputs []*tensor.RawTensor,
	opts Options,
) (bool, error) {
	tensors := make([]*tensor.RawTensor, len(inputs))
	diffIdx := make([]int, 0, len(inputs))
	for i, v := range inputs {
		tensors[i] = v.Tensor
		if v.RequiresGrad && v.Tensor.DType().IsFloat() {
			diffIdx = append(diffIdx, i)
		}
	}
	if len(diffIdx) == 0 {
		return false, errors.New("gradcheck: no floating-point inputs require gradients")
	}

	if gradOutputs == nil {
		var err error
		gradOutputs, err = defaultSeeds(backend, f, tensors)
		if err != nil {
			return false, err
		}
	}

	n := len(inputs)
	g := func(all []*tensor.RawTensor) []*tensor.RawTensor {
		xs, seeds := all[:n], all[n:]

		tape := backend.Tape()
		wasRecording := tape.IsRecording()
		tape.StartRecording()
		defer func() {
			if !wasRecording {
				tape.StopRecording()
			}
		}()

		outs := filterDifferentiable(f(xs))
		diffOuts := make([]*tensor.RawTensor, len(outs))
		for i, out := range outs {
			diffOuts[i] = out.tensor
		}

		ins := make([]*tensor.RawTensor, len(diffIdx))
		for i, idx := range diffIdx {
			ins[i] = xs[idx]
		}

		grads, err := backend.Grad(diffOuts, ins, autodiff.GradOptions{
			GradOutputs: seeds,
			CreateGraph: true,
			AllowUnused: true,
		})
		if err != nil {
			panic(errors.Wrap(err, "gradcheck: first-order gradient failed"))
		}

		for i, grad := range grads {
			if grad == nil {
				z, zerr := tensor.ZerosRaw(ins[i].Shape(), ins[i].DType(), ins[i].Device())
				if zerr != nil {
					panic(errors.Wrap(zerr, "gradcheck: failed to create zero gradient"))
				}
				grads[i] = z
			}
		}
		return grads
	}

	combined := make([]Var, 0, n+len(gradOutputs))
	combined = append(combined, inputs...)
	for _, seed := range gradOutputs {
		combined = append(combined, NewVar(seed))
	}

	return GradCheck(backend, g, combined, opts)
}

// defaultSeeds runs f once without recording and returns a ones tensor per
// differentiable output.
func defaultSeeds[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	f Func,
	tensors []*tensor.RawTensor,
) ([]*tensor.RawTensor, error) {
	var outs []diffOutput
	backend.NoGrad(func() {
		outs = filterDifferentiable(f(tensors))
	})
	if len(outs) == 0 {
		return nil, errors.New("gradcheck: no floating-point outputs to differentiate")
	}

	seeds := make([]*tensor.RawTensor, len(outs))
	for i, out := range outs {
		ones, err := tensor.OnesRaw(out.tensor.Shape(), out.tensor.DType(), out.tensor.Device())
		if err != nil {
			return nil, errors.Wrap(err, "gradcheck: failed to create seed")
		}
		seeds[i] = ones
	}
	return seeds, nil
}
