package main

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"
)

// hostFeatures describes the CPU features relevant to the float32 kernels
func hostFeatures() string {
	switch runtime.GOARCH {
	case "amd64":
		return fmt.Sprintf("amd64 avx2=%v avx512f=%v fma=%v", cpu.X86.HasAVX2, cpu.X86.HasAVX512F, cpu.X86.HasFMA)
	case "arm64":
		return fmt.Sprintf("arm64 asimd=%v fphp=%v", cpu.ARM64.HasASIMD, cpu.ARM64.HasFPHP)
	default:
		return runtime.GOARCH
	}
}
