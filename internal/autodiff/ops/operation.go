// Package ops defines operation interfaces and implementations for
// automatic differentiation.
//
// Each differentiable operation implements the Operation interface: the
// forward pass is computed by the backend, the backward pass computes input
// gradients given the output gradient. An operation owns references to the
// tensors it saved during forward (the tape performs no reference-tracing
// collection of its own; freeing happens when the engine consumes a tape
// segment).
package ops

import "github.com/gradix-ml/gradix/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	// A nil entry means no gradient flows to that input.
	//
	// Example for AddOp:
	//   inputs: [a, b]
	//   outputGrad: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)] (gradient flows equally to both inputs)
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
