//go:build !linux

package toolchain

import "os/exec"

func killGroupOnCancel(cmd *exec.Cmd) {}
