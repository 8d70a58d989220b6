// Package hostshim implements the host contract spec.md §6.4 leaves as
// an external collaborator: instantiate a compiled Pinky WASM module,
// supply env.print/env.println, and decode the boxed values those
// imports are called with into an ordered list of output strings.
//
// hostshim is not one of the back-end's five core components and the
// back-end never imports it — it only consumes the back-end's output.
// Grounded on tetratelabs-wazero's examples/allocation/tinygo/greet.go
// host-function-builder shape.
package hostshim

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Box tags, mirroring internal/runtime's layout (spec.md §3).
const (
	tagNil = iota
	tagBool
	tagNumber
	tagString
)

// Run instantiates wasmBytes under a fresh runtime, wires env.print and
// env.println to decode the boxed pointer they are called with, runs
// the exported main function, and returns every printed string in
// call order. println's entries already carry a trailing "\n".
func Run(ctx context.Context, wasmBytes []byte) ([]string, error) {
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	var out []string
	print := func(_ context.Context, m api.Module, ptr uint32) {
		out = append(out, decode(m, ptr))
	}
	println_ := func(_ context.Context, m api.Module, ptr uint32) {
		out = append(out, decode(m, ptr)+"\n")
	}

	_, err := r.NewHostModuleBuilder("env").
		NewFunctionBuilder().WithFunc(print).Export("print").
		NewFunctionBuilder().WithFunc(println_).Export("println").
		Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("hostshim: registering env module: %w", err)
	}

	mod, err := r.InstantiateWithConfig(ctx, wasmBytes, wazero.NewModuleConfig())
	if err != nil {
		return nil, fmt.Errorf("hostshim: instantiating module: %w", err)
	}
	defer mod.Close(ctx)

	main := mod.ExportedFunction("main")
	if main == nil {
		return nil, fmt.Errorf("hostshim: module exports no %q function", "main")
	}
	if _, err := main.Call(ctx); err != nil {
		return nil, fmt.Errorf("hostshim: main trapped: %w", err)
	}
	return out, nil
}

// decode reads the tag byte at ptr and renders the boxed value per
// spec.md §6.4's host contract.
func decode(m api.Module, ptr uint32) string {
	mem := m.Memory()
	tag, ok := mem.ReadByte(ptr)
	if !ok {
		return ""
	}
	switch tag {
	case tagNil:
		return "nil"
	case tagBool:
		b, _ := mem.ReadByte(ptr + 1)
		if b != 0 {
			return "true"
		}
		return "false"
	case tagNumber:
		f, _ := mem.ReadFloat64Le(ptr + 1)
		return formatNumber(f)
	case tagString:
		offset, _ := mem.ReadUint32Le(ptr + 1)
		length, _ := mem.ReadUint32Le(ptr + 5)
		bytes, _ := mem.Read(offset, length)
		return string(bytes)
	default:
		return fmt.Sprintf("<bad tag %d>", tag)
	}
}

// formatNumber renders a Pinky number the way the host contract
// describes ("decimal text"): integral values print without a
// fractional part, matching println's output in spec.md §8's scenario
// table (e.g. 15, not 15.0).
func formatNumber(f float64) string {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
