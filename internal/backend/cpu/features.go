package cpu

import (
	xcpu "golang.org/x/sys/cpu"
)

// DetectBlockWidth picks the Blocked layout panel width from the widest
// float32 vector register the host exposes.
func DetectBlockWidth() int {
	switch {
	case xcpu.X86.HasAVX512F:
		return 16
	case xcpu.X86.HasAVX2, xcpu.ARM64.HasASIMD:
		return 8
	default:
		return 4
	}
}

// Features lists the vector extensions relevant to the Blocked layout that
// the host supports.
func Features() []string {
	var feats []string
	if xcpu.X86.HasAVX512F {
		feats = append(feats, "avx512f")
	}
	if xcpu.X86.HasAVX2 {
		feats = append(feats, "avx2")
	}
	if xcpu.X86.HasFMA {
		feats = append(feats, "fma")
	}
	if xcpu.ARM64.HasASIMD {
		feats = append(feats, "asimd")
	}
	return feats
}
