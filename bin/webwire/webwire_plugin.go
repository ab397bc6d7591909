// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	"fmt"
	"io"

	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

const (
	pluginExportAllocate = "webwire_codegen_allocate"
	pluginExportGenerate = "webwire_codegen_generate"
)

// runPlugin runs a codegen plugin on one request.
//
// The plugin exports an allocator and a generate function. The host
// allocates and fills the request buffer plus a 4-byte slot, then calls
// generate(request_ptr, request_len, slot_ptr). The plugin stores a
// pointer in the slot to a little-endian uint32 length followed by the
// JSON response. A nonzero return code means the response carries an
// error message.
func runPlugin(ctx context.Context, pluginBin, request []byte, stderr io.Writer) (uint8, []byte, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		return 0, nil, err
	}

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return 0, nil, err
	}
	moduleConfig := wasm.NewModuleConfig().
		WithStartFunctions("_initialize").
		WithStderr(stderr)
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return 0, nil, err
	}
	mem := plugin.Memory()
	if mem == nil {
		return 0, nil, fmt.Errorf("plugin does not export its memory")
	}

	wasmAlloc := plugin.ExportedFunction(pluginExportAllocate)
	if wasmAlloc == nil {
		return 0, nil, fmt.Errorf("plugin does not export %s", pluginExportAllocate)
	}
	wasmGenerate := plugin.ExportedFunction(pluginExportGenerate)
	if wasmGenerate == nil {
		return 0, nil, fmt.Errorf("plugin does not export %s", pluginExportGenerate)
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(request)))
	if err != nil {
		return 0, nil, err
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, request) {
		return 0, nil, fmt.Errorf("request buffer out of range")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return 0, nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(
		ctx,
		uint64(requestPtr),
		uint64(len(request)),
		uint64(responsePtrPtr),
	)
	if err != nil {
		return 0, nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return 0, nil, fmt.Errorf("failed to read response pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return 0, nil, fmt.Errorf("failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return 0, nil, fmt.Errorf("failed to read response message")
	}
	// The view aliases plugin memory, which is released with the runtime.
	return rc, append([]byte(nil), responseBuf...), nil
}
