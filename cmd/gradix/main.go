// Package main provides the Gradix CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/gradix-ml/gradix/autodiff"
	"github.com/gradix-ml/gradix/backend/cpu"
	"github.com/gradix-ml/gradix/gradcheck"
	"github.com/gradix-ml/gradix/tensor"
)

const version = "v0.1.0-dev"

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	switch flag.Arg(0) {
	case "version":
		fmt.Printf("Gradix %s\n", version)
	case "selfcheck":
		if err := selfCheck(); err != nil {
			fmt.Fprintf(os.Stderr, "selfcheck failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("selfcheck passed")
	default:
		fmt.Println("Gradix - Differentiable Tensor Computing for Go")
		fmt.Printf("Version: %s\n\n", version)
		fmt.Println("Commands:")
		fmt.Println("  version     Show version")
		fmt.Println("  selfcheck   Verify autodiff gradients numerically")
	}
}

// selfCheck gradchecks a small composite function on the CPU backend.
func selfCheck() error {
	backend := autodiff.New(cpu.New())

	x, err := tensor.FromSlice([]float64{0.5, 1.5, -2.0, 3.0}, tensor.Shape{2, 2}, backend)
	if err != nil {
		return err
	}
	y, err := tensor.FromSlice([]float64{1.0, -1.0, 2.0, 0.25}, tensor.Shape{2, 2}, backend)
	if err != nil {
		return err
	}

	f := func(inputs []*tensor.RawTensor) []*tensor.RawTensor {
		prod := backend.Mul(inputs[0], inputs[1])
		return []*tensor.RawTensor{backend.Add(prod, backend.Square(inputs[0]))}
	}

	ok, err := gradcheck.GradCheck(backend, f,
		[]gradcheck.Var{gradcheck.NewVar(x.Raw()), gradcheck.NewVar(y.Raw())},
		gradcheck.DefaultOptions())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("gradient check reported a mismatch")
	}
	return nil
}
